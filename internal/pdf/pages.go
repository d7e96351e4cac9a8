package pdf

import (
	"fmt"

	"github.com/jonathan/easel/internal/fsutil"
	"github.com/ledongthuc/pdf"
)

// CountPages returns the number of pages in the PDF at path.
func CountPages(path string) (count int, err error) {
	// the reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			count, err = 0, &fsutil.IOError{Op: "read pdf", Path: path, Cause: fmt.Errorf("%v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, &fsutil.IOError{Op: "read pdf", Path: path, Cause: err}
	}
	defer f.Close()

	return r.NumPage(), nil
}

// VerifyPageCount checks that output holds exactly as many pages as all
// inputs together.
func VerifyPageCount(output string, inputs ...string) error {
	want := 0
	for _, in := range inputs {
		n, err := CountPages(in)
		if err != nil {
			return err
		}
		want += n
	}

	got, err := CountPages(output)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("page count mismatch for %s: got %d, want %d", output, got, want)
	}
	return nil
}
