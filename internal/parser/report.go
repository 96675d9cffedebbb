package parser

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

// FormatAddress renders a register address as 0x followed by eight uppercase hex digits.
func FormatAddress(addr uint32) string {
	return fmt.Sprintf("0x%08X", addr)
}

// Family is a "+n" register family found while scanning. Its members are not
// enumerable from the token, so it never contributes to the address set.
type Family struct {
	Line  int
	Base  uint32
	Token string
}

// String returns the out-of-band report line, e.g. "0x00000C90  C90+n".
func (f Family) String() string {
	return FormatAddress(f.Base) + "  " + f.Token
}

// Row is an accepted data row and the token classified from it
type Row struct {
	Line  int
	Text  string
	Token Token
}

// Count returns how many addresses the row documents. Families and reversed
// ranges document none.
func (r Row) Count() uint64 {
	switch r.Token.Kind {
	case KindFamily:
		return 0
	case KindRange:
		if r.Token.High < r.Token.Low {
			return 0
		}
		return uint64(r.Token.High) - uint64(r.Token.Low) + 1
	default:
		return 1
	}
}

// Report is the result of an extraction
type Report struct {
	Path     string
	Start    int
	End      int
	Rows     []Row
	Families []Family

	addresses *roaring.Bitmap
}

func newReport(path string, w Window) *Report {
	return &Report{
		Path:      path,
		Start:     w.Start,
		End:       w.End,
		addresses: roaring.New(),
	}
}

// add records the addresses documented by tok.
func (r *Report) add(tok Token) {
	switch tok.Kind {
	case KindSingle:
		r.addresses.Add(tok.Low)
	case KindRange:
		// AddRange is half-open and ignores an empty or reversed interval.
		r.addresses.AddRange(uint64(tok.Low), uint64(tok.High)+1)
	}
}

// Addresses returns the unique register addresses in ascending order.
func (r *Report) Addresses() []uint32 {
	return r.addresses.ToArray()
}

// Len returns the number of unique register addresses.
func (r *Report) Len() int {
	return int(r.addresses.GetCardinality())
}

// Contains reports whether addr was documented inside the window.
func (r *Report) Contains(addr uint32) bool {
	return r.addresses.Contains(addr)
}

// WriteTo writes the sorted address block, one address per line.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.addresses.Iterator()
	for it.HasNext() {
		n, err := fmt.Fprintln(w, FormatAddress(it.Next()))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
