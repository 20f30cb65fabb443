package pixel

import "fmt"

// Relayout copies every sample of src into dst.
//
// The buffers must have the same lines, samples and bands; organization,
// binary prefix and header sizes, data type and byte order may all differ.
// Samples are converted through the codecs, so narrowing a data type fails
// with errs.ErrUnrepresentableValue for values that do not fit.
//
// Binary header records are copied record by record, up to the shorter
// record size and the smaller record count; the rest of dst's header stays
// zero. Record prefixes are copied the same way when both buffers share the
// organization, since only then do their records hold the same samples.
func Relayout(dst, src *Buffer) error {
	sg, dg := src.geom, dst.geom
	if sg.Lines != dg.Lines || sg.Samples != dg.Samples || sg.Bands != dg.Bands {
		return fmt.Errorf("relayout %dx%dx%d into %dx%dx%d: dimensions differ",
			sg.Lines, sg.Samples, sg.Bands, dg.Lines, dg.Samples, dg.Bands)
	}

	same := src.codec.SameEncoding(dst.codec)
	if same && sg == dg {
		if !src.Complete() {
			_, err := src.span(0, sg.Len())
			return err
		}
		copy(dst.data, src.data)

		return nil
	}

	if err := copyBinary(dst, src); err != nil {
		return err
	}

	for idx, off := range sg.All() {
		w, err := src.span(off, sg.SampleWidth)
		if err != nil {
			return err
		}
		dw, err := dst.span(dg.offset(idx), dg.SampleWidth)
		if err != nil {
			return err
		}
		if same {
			copy(dw, w)
			continue
		}

		s, err := src.codec.Decode(w)
		if err != nil {
			return err
		}
		if err := dst.codec.Encode(s, dw); err != nil {
			return fmt.Errorf("line %d sample %d band %d: %w", idx.Line, idx.Sample, idx.Band, err)
		}
	}

	return nil
}

func copyBinary(dst, src *Buffer) error {
	sg, dg := src.geom, dst.geom

	if sg.HeaderBytes > 0 && dg.HeaderBytes > 0 {
		h, err := src.Header()
		if err != nil {
			return err
		}
		dh, err := dst.Header()
		if err != nil {
			return err
		}
		n := min(sg.HeaderBytes/sg.RecordSize, dg.HeaderBytes/dg.RecordSize)
		w := min(sg.RecordSize, dg.RecordSize)
		for r := range n {
			copy(dh[r*dg.RecordSize:r*dg.RecordSize+w], h[r*sg.RecordSize:])
		}
	}

	if sg.PrefixBytes == 0 || dg.PrefixBytes == 0 || sg.Org != dg.Org {
		return nil
	}
	for r := range sg.Records() {
		p, err := src.Prefix(r)
		if err != nil {
			return err
		}
		dp, err := dst.Prefix(r)
		if err != nil {
			return err
		}
		copy(dp, p)
	}

	return nil
}
