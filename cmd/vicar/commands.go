package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/arloliu/vicar"
	"github.com/arloliu/vicar/compress"
	"github.com/arloliu/vicar/format"
	"github.com/arloliu/vicar/label"
	"github.com/arloliu/vicar/pixel"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the system label and layout of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), f)

			return nil
		},
	}
}

func printInfo(w io.Writer, f *vicar.File) {
	s := f.System
	g := s.Geometry()

	fmt.Fprintf(w, "format:      %s\n", s.Format)
	fmt.Fprintf(w, "type:        %s\n", s.Type)
	fmt.Fprintf(w, "org:         %s\n", s.Org)
	fmt.Fprintf(w, "size:        %d lines x %d samples x %d bands\n", s.Lines, s.Samples, s.Bands)
	fmt.Fprintf(w, "host:        %s (INTFMT=%s REALFMT=%s)\n", s.Host, s.IntFormat, s.RealFormat)
	fmt.Fprintf(w, "lblsize:     %d\n", s.LabelSize)
	fmt.Fprintf(w, "recsize:     %d (%d records, NBB=%d NLB=%d)\n", s.RecordSize, g.RecordCount(), s.PrefixBytes, s.HeaderLines)
	fmt.Fprintf(w, "groups:      %d\n", f.Properties.Len())
	if f.Trailer != nil {
		fmt.Fprintf(w, "trailer:     %d bytes, %d groups\n", f.Trailer.LabelSize, f.Trailer.Properties.Len())
	}

	digest, err := f.Pixels.Digest()
	if err != nil {
		fmt.Fprintf(w, "pixels:      incomplete, %d of %d bytes\n", len(f.Pixels.Bytes()), g.Len())
		return
	}
	fmt.Fprintf(w, "pixels:      %d bytes, xxhash %016x\n", g.Len(), digest)
}

type groupDoc struct {
	Kind     string        `yaml:"kind"`
	Name     string        `yaml:"name,omitempty"`
	User     string        `yaml:"user,omitempty"`
	DateTime string        `yaml:"dat_tim,omitempty"`
	Trailer  bool          `yaml:"trailer,omitempty"`
	Labels   yaml.MapSlice `yaml:"labels"`
}

func newGroupDoc(g label.Group, trailer bool) groupDoc {
	doc := groupDoc{
		Kind:     g.Kind().String(),
		Name:     g.Name(),
		User:     g.User(),
		DateTime: g.DateTime(),
		Trailer:  trailer,
	}
	for _, l := range g.All() {
		item := yaml.MapItem{Key: l.Keyword, Value: l.Value}
		if l.Unit != "" {
			item.Value = yaml.MapSlice{{Key: "value", Value: l.Value}, {Key: "unit", Value: l.Unit}}
		}
		doc.Labels = append(doc.Labels, item)
	}

	return doc
}

func newLabelsCommand(a *app) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "labels <file>",
		Short: "Print the property and history labels of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.open(args[0])
			if err != nil {
				return err
			}

			var docs []groupDoc
			for _, g := range f.Properties.All() {
				docs = append(docs, newGroupDoc(g, false))
			}
			if f.Trailer != nil {
				for _, g := range f.Trailer.Properties.All() {
					docs = append(docs, newGroupDoc(g, true))
				}
			}

			w := cmd.OutOrStdout()
			if asYAML {
				out, err := yaml.Marshal(docs)
				if err != nil {
					return err
				}
				_, err = w.Write(out)

				return err
			}
			printGroups(w, docs)

			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the labels as YAML")

	return cmd
}

func printGroups(w io.Writer, docs []groupDoc) {
	for _, d := range docs {
		header := d.Kind
		if d.Name != "" {
			header += " " + d.Name
		}
		if d.User != "" {
			header += fmt.Sprintf(" (%s, %s)", d.User, d.DateTime)
		}
		if d.Trailer {
			header += " [trailer]"
		}
		fmt.Fprintln(w, header)

		for _, item := range d.Labels {
			switch v := item.Value.(type) {
			case yaml.MapSlice:
				fmt.Fprintf(w, "  %s=%s <%s>\n", item.Key, v[0].Value, v[1].Value)
			default:
				fmt.Fprintf(w, "  %s=%s\n", item.Key, v)
			}
		}
	}
}

func newPixelCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pixel <file> <line> <sample> [band]",
		Short: "Print one sample of a file",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := make([]int, 3)
			for i, arg := range args[1:] {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid index %q: %w", arg, err)
				}
				idx[i] = n
			}

			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			s, err := f.Pixels.At(idx[0], idx[1], idx[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)

			return nil
		},
	}
}

func newConvertCommand(a *app) *cobra.Command {
	var (
		org      string
		dataType string
		intFmt   string
		realFmt  string
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a file with another organization, data type or byte order",
		Long: `Rewrite a file with another organization, data type or byte order. The
host and byte order default to the configuration. Property and history labels
are carried over unchanged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if intFmt != "" {
				a.cfg.IntFormat = intFmt
			}
			if realFmt != "" {
				a.cfg.RealFormat = realFmt
			}
			hostOpt, err := a.cfg.HostOption()
			if err != nil {
				return err
			}

			src, err := a.open(args[0])
			if err != nil {
				return err
			}
			dst, err := convert(src, org, dataType, hostOpt, a.logger)
			if err != nil {
				return err
			}

			data, err := vicar.Marshal(dst)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], data, 0o644); err != nil {
				return err
			}
			a.logger.WithFields(logrus.Fields{
				"input":  args[0],
				"output": args[1],
				"org":    dst.System.Org.String(),
				"format": dst.System.Format.String(),
				"bytes":  len(data),
			}).Info("converted")

			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "target organization: BSQ, BIL or BIP")
	cmd.Flags().StringVar(&dataType, "format", "", "target data type: BYTE, HALF, FULL, REAL, DOUB or COMP")
	cmd.Flags().StringVar(&intFmt, "intfmt", "", "target integer byte order: HIGH or LOW")
	cmd.Flags().StringVar(&realFmt, "realfmt", "", "target real format: IEEE, RIEEE or VAX")

	return cmd
}

// convert builds a copy of src with the given organization and data type.
// Empty names keep the source values. Binary header and prefix bytes are
// copied as they are, so their BHOST, BINTFMT and BREALFMT carry over.
func convert(src *vicar.File, org, dataType string, hostOpt label.SystemOption, logger logrus.FieldLogger) (*vicar.File, error) {
	s := src.System

	o := s.Org
	if org != "" {
		var err error
		if o, err = format.ParseOrganization(org); err != nil {
			return nil, err
		}
	}
	dt := s.Format
	if dataType != "" {
		var err error
		if dt, err = format.ParseDataType(dataType); err != nil {
			return nil, err
		}
	}

	opts := []label.SystemOption{
		hostOpt,
		label.WithBinaryHost(s.BinaryHost, s.BinaryIntFormat, s.BinaryRealFormat),
		label.WithBinaryPrefix(s.PrefixBytes),
		label.WithBinaryHeader(s.HeaderLines),
		label.WithBinaryLabelType(s.BinaryLabelType),
	}
	if s.EOL {
		opts = append(opts, label.WithTrailer())
	}
	sys, err := label.NewSystemLabel(dt, o, s.Lines, s.Samples, s.Bands, opts...)
	if err != nil {
		return nil, err
	}

	dst, err := vicar.New(sys, vicar.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, g := range src.Properties.All() {
		if err := dst.Properties.Append(g); err != nil {
			return nil, err
		}
	}
	if src.Trailer != nil {
		for _, g := range src.Trailer.Properties.All() {
			if err := dst.Trailer.Properties.Append(g); err != nil {
				return nil, err
			}
		}
	}
	if err := pixel.Relayout(dst.Pixels, src.Pixels); err != nil {
		return nil, err
	}

	return dst, nil
}

func newPackCommand(a *app) *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "pack <input> <output>",
		Short: "Write a file wrapped in a compressed stream",
		Long: `Write a file wrapped in a zstd, S2, LZ4 or gzip stream. The other commands
read packed files directly. Use --compression none to unpack.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if compression != "" {
				a.cfg.Compression = compression
			}
			ct, err := a.cfg.CompressionType()
			if err != nil {
				return err
			}

			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			data, err := vicar.Marshal(f)
			if err != nil {
				return err
			}
			packed, stats, err := compress.Measure(ct, data)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], packed, 0o644); err != nil {
				return err
			}

			a.logger.WithFields(logrus.Fields{
				"algorithm": stats.Algorithm.String(),
				"original":  stats.OriginalSize,
				"packed":    stats.CompressedSize,
				"elapsed":   stats.CompressionTime.String(),
			}).Info("packed")
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes (%s, %.1f%% saved)\n",
				args[1], stats.OriginalSize, stats.CompressedSize,
				strings.ToLower(ct.String()), stats.SpaceSavings())

			return nil
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "", "none, zstd, s2, lz4 or gzip (overrides config)")

	return cmd
}
