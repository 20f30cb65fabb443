// Package format holds the VICAR format constants and the enumerated keyword
// values shared by the label and pixel packages.
package format

// Label area geometry. The label size field sits at byte 0 of every label
// area (main and trailer) and its digits occupy a fixed width so that the
// field can be rewritten in place once the final size is known.
const (
	LabelSizeKeyword    = "LBLSIZE"
	LabelSizePrefix     = LabelSizeKeyword + "="
	LabelSizeDigits     = 8                                       // digits of the zero-padded size value
	LabelSizeFieldWidth = len(LabelSizePrefix) + LabelSizeDigits // bytes read before tokenizing
	MaxLabelSize        = 99999999                                // largest value LabelSizeDigits can hold

	PadChar = ' ' // label area padding
)

// Defaults applied when a legacy label omits a keyword.
const (
	DefaultType      = "IMAGE"
	DefaultHost      = "VAX-VMS"
	DefaultIntFormat = IntLow
	DefaultReal      = RealVAX
	DefaultDim       = 3
	CompressNone     = "NONE"
)
