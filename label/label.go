package label

import (
	"fmt"
	"iter"
	"strings"

	"github.com/arloliu/vicar/internal/hash"
)

// Group markers and provenance keywords. They open or describe a group and
// are never stored as labels.
const (
	KeywordProperty = "PROPERTY"
	KeywordTask     = "TASK"
	KeywordUser     = "USER"
	KeywordDateTime = "DAT_TIM"
)

// Label is a single KEYWORD=VALUE entry with an optional unit annotation.
type Label struct {
	Keyword string
	Value   Value
	Unit    string
}

// New creates a label without a unit.
func New(keyword string, value Value) Label {
	return Label{Keyword: keyword, Value: value}
}

// WithUnit returns a copy of l carrying unit.
func (l Label) WithUnit(unit string) Label {
	l.Unit = unit
	return l
}

// Is reports whether the label's keyword matches keyword, ignoring case.
func (l Label) Is(keyword string) bool {
	return strings.EqualFold(l.Keyword, keyword)
}

// Validate checks the keyword syntax, the value and the unit.
func (l Label) Validate() error {
	if err := validateKeyword(l.Keyword); err != nil {
		return err
	}
	if l.Value.IsZero() {
		return fmt.Errorf("label %s has no value", l.Keyword)
	}
	if strings.ContainsAny(l.Unit, "<>") {
		return fmt.Errorf("label %s: unit %q must not contain angle brackets", l.Keyword, l.Unit)
	}

	return nil
}

func validateKeyword(keyword string) error {
	if keyword == "" {
		return fmt.Errorf("empty keyword")
	}
	if !isKeywordStart(keyword[0]) {
		return fmt.Errorf("keyword %q must start with a letter or underscore", keyword)
	}
	for i := 0; i < len(keyword); i++ {
		if !isKeywordByte(keyword[i]) {
			return fmt.Errorf("keyword %q contains invalid character %q", keyword, keyword[i])
		}
	}

	return nil
}

func isKeywordStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_'
}

func isKeywordByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

// GroupKind tells how a group was introduced in the label area.
type GroupKind uint8

const (
	// GroupUnscoped holds non-system keywords found in the system section,
	// before any PROPERTY or TASK marker.
	GroupUnscoped GroupKind = 0x1
	// GroupProperty is a property set opened by PROPERTY='NAME'.
	GroupProperty GroupKind = 0x2
	// GroupTask is a history entry opened by TASK='NAME'.
	GroupTask GroupKind = 0x3
)

func (k GroupKind) String() string {
	switch k {
	case GroupUnscoped:
		return "Unscoped"
	case GroupProperty:
		return "Property"
	case GroupTask:
		return "Task"
	default:
		return "Unknown"
	}
}

// Group is an ordered set of labels plus its provenance. A Group is immutable:
// With returns an extended copy, and a Group appended to a Store never changes.
type Group struct {
	kind     GroupKind
	name     string
	user     string
	dateTime string
	labels   []Label
	index    map[uint64]int
}

// NewProperty creates a property group.
func NewProperty(name string, labels ...Label) (Group, error) {
	if name == "" {
		return Group{}, fmt.Errorf("property group needs a name")
	}

	return Group{kind: GroupProperty, name: name}.With(labels...)
}

// NewTask creates a history group for the task that processed the file.
// user and dateTime may be empty.
func NewTask(name, user, dateTime string, labels ...Label) (Group, error) {
	if name == "" {
		return Group{}, fmt.Errorf("task group needs a name")
	}

	return Group{kind: GroupTask, name: name, user: user, dateTime: dateTime}.With(labels...)
}

// NewUnscoped creates the group of extra keywords of the system section.
func NewUnscoped(labels ...Label) (Group, error) {
	return Group{kind: GroupUnscoped}.With(labels...)
}

// Kind returns how the group is introduced.
func (g Group) Kind() GroupKind {
	return g.kind
}

// Name returns the property or task name; empty for the unscoped group.
func (g Group) Name() string {
	return g.name
}

// User returns the user that ran the task, if recorded.
func (g Group) User() string {
	return g.user
}

// DateTime returns the DAT_TIM text of a task, if recorded.
func (g Group) DateTime() string {
	return g.dateTime
}

// Len returns the number of labels.
func (g Group) Len() int {
	return len(g.labels)
}

// Labels returns a copy of the labels in order.
func (g Group) Labels() []Label {
	return append([]Label(nil), g.labels...)
}

// All iterates over the labels in order.
func (g Group) All() iter.Seq2[int, Label] {
	return func(yield func(int, Label) bool) {
		for i, l := range g.labels {
			if !yield(i, l) {
				return
			}
		}
	}
}

// Get returns the label with the given keyword, ignoring case.
func (g Group) Get(keyword string) (Label, bool) {
	i, ok := g.index[hash.Keyword(keyword)]
	if !ok {
		return Label{}, false
	}
	if g.labels[i].Is(keyword) {
		return g.labels[i], true
	}
	// The slot belongs to another keyword with the same xxHash64.
	for _, l := range g.labels {
		if l.Is(keyword) {
			return l, true
		}
	}

	return Label{}, false
}

// Has reports whether the group holds keyword.
func (g Group) Has(keyword string) bool {
	_, ok := g.Get(keyword)
	return ok
}

// With returns a copy of g with labels appended. Keywords must be valid,
// unique within the group and must not be a group marker.
func (g Group) With(labels ...Label) (Group, error) {
	out := g
	out.labels = make([]Label, len(g.labels), len(g.labels)+len(labels))
	copy(out.labels, g.labels)
	out.index = make(map[uint64]int, len(g.labels)+len(labels))
	for k, v := range g.index {
		out.index[k] = v
	}

	for _, l := range labels {
		if err := out.checkKeyword(l); err != nil {
			return Group{}, err
		}
		if out.Has(l.Keyword) {
			return Group{}, fmt.Errorf("duplicate keyword %s in %s group %q", l.Keyword, g.kind, g.name)
		}
		if h := hash.Keyword(l.Keyword); !hasKey(out.index, h) {
			out.index[h] = len(out.labels)
		}
		out.labels = append(out.labels, l)
	}

	return out, nil
}

func hasKey(m map[uint64]int, k uint64) bool {
	_, ok := m[k]
	return ok
}

func (g Group) checkKeyword(l Label) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if isReserved(g.kind, l.Keyword) {
		return fmt.Errorf("keyword %s is reserved in %s groups", l.Keyword, g.kind)
	}

	return nil
}

func isReserved(kind GroupKind, keyword string) bool {
	k := strings.ToUpper(keyword)
	switch k {
	case KeywordProperty, KeywordTask, KeywordLabelSize:
		return true
	case KeywordUser, KeywordDateTime:
		return kind == GroupTask
	}

	return kind == GroupUnscoped && isSystemKeyword(k)
}

// Store is the ordered, append-only sequence of label groups of a label area.
// The zero value is an empty store ready to use.
type Store struct {
	groups []Group
}

// NewStore creates a store holding groups.
func NewStore(groups ...Group) (*Store, error) {
	s := &Store{}
	for _, g := range groups {
		if err := s.Append(g); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Append adds g after the existing groups. Earlier groups are never modified,
// so reprocessing a file adds history instead of replacing it. The unscoped
// group may only be the first group.
func (s *Store) Append(g Group) error {
	switch g.kind {
	case GroupUnscoped:
		if len(s.groups) > 0 {
			return fmt.Errorf("unscoped group must precede all property and task groups")
		}
	case GroupProperty, GroupTask:
	default:
		return fmt.Errorf("invalid group kind %d", g.kind)
	}
	s.groups = append(s.groups, g)

	return nil
}

// Len returns the number of groups.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}

	return len(s.groups)
}

// Group returns the i-th group.
func (s *Store) Group(i int) Group {
	return s.groups[i]
}

// All iterates over the groups in history order.
func (s *Store) All() iter.Seq2[int, Group] {
	return func(yield func(int, Group) bool) {
		if s == nil {
			return
		}
		for i, g := range s.groups {
			if !yield(i, g) {
				return
			}
		}
	}
}

// Unscoped returns the unscoped group, if any.
func (s *Store) Unscoped() (Group, bool) {
	if s.Len() > 0 && s.groups[0].kind == GroupUnscoped {
		return s.groups[0], true
	}

	return Group{}, false
}

// Property returns the first property group called name.
func (s *Store) Property(name string) (Group, bool) {
	return s.find(GroupProperty, name)
}

// Tasks iterates over the history groups in processing order.
func (s *Store) Tasks() iter.Seq[Group] {
	return func(yield func(Group) bool) {
		for _, g := range s.All() {
			if g.kind == GroupTask && !yield(g) {
				return
			}
		}
	}
}

// Lookup finds keyword in the first group of the given kind and name.
func (s *Store) Lookup(kind GroupKind, name, keyword string) (Label, bool) {
	g, ok := s.find(kind, name)
	if !ok {
		return Label{}, false
	}

	return g.Get(keyword)
}

func (s *Store) find(kind GroupKind, name string) (Group, bool) {
	for _, g := range s.All() {
		if g.kind == kind && strings.EqualFold(g.name, name) {
			return g, true
		}
	}

	return Group{}, false
}
