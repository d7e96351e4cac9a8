package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/easel/internal/fsutil"
	"github.com/jonathan/easel/internal/pdf/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCombine_PreservesPageCountAndOrder(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 2, 600)
	b := pdftest.Write(t, filepath.Join(dir, "b.pdf"), 3, 700)
	out := filepath.Join(dir, "out.pdf")

	c := NewCombiner(zaptest.NewLogger(t))
	got, err := c.Combine(context.Background(), a, b, out)
	require.NoError(t, err)
	assert.Equal(t, out, got)

	count, err := CountPages(out)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, []int{601, 602, 701, 702, 703}, pdftest.PageWidths(t, out))
	assert.NoError(t, VerifyPageCount(out, a, b))
}

func TestCombine_EmptyDocuments(t *testing.T) {
	dir := t.TempDir()
	empty := pdftest.Write(t, filepath.Join(dir, "empty.pdf"), 0, 100)
	two := pdftest.Write(t, filepath.Join(dir, "two.pdf"), 2, 200)
	c := NewCombiner(zaptest.NewLogger(t))

	tests := []struct {
		name   string
		first  string
		second string
		want   []int
	}{
		{"empty first", empty, two, []int{201, 202}},
		{"empty second", two, empty, []int{201, 202}},
		{"both empty", empty, empty, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.pdf")
			_, err := c.Combine(context.Background(), tt.first, tt.second, out)
			require.NoError(t, err)

			assert.Equal(t, tt.want, pdftest.PageWidths(t, out))
			assert.NoError(t, VerifyPageCount(out, tt.first, tt.second))
		})
	}
}

func TestCombineAll_EmptyMiddleDocument(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 100)
	empty := pdftest.Write(t, filepath.Join(dir, "empty.pdf"), 0, 200)
	b := pdftest.Write(t, filepath.Join(dir, "b.pdf"), 2, 300)
	out := filepath.Join(dir, "out.pdf")

	require.NoError(t, CombineAll(context.Background(), NewCombiner(nil), []string{a, empty, b}, out))
	assert.Equal(t, []int{101, 301, 302}, pdftest.PageWidths(t, out))
}

func TestCombine_DoesNotMutateInputs(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 500)
	b := pdftest.Write(t, filepath.Join(dir, "b.pdf"), 1, 510)
	before, err := os.ReadFile(a)
	require.NoError(t, err)

	_, err = NewCombiner(nil).Combine(context.Background(), a, b, filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)

	after, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCombine_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 500)
	b := pdftest.Write(t, filepath.Join(dir, "b.pdf"), 1, 510)
	out := pdftest.Write(t, filepath.Join(dir, "out.pdf"), 4, 100)

	_, err := NewCombiner(nil).Combine(context.Background(), a, b, out)
	require.NoError(t, err)

	count, err := CountPages(out)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCombine_MissingInput(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 500)
	out := filepath.Join(dir, "out.pdf")

	_, err := NewCombiner(nil).Combine(context.Background(), a, filepath.Join(dir, "missing.pdf"), out)
	require.Error(t, err)

	var ioErr *fsutil.IOError
	assert.True(t, errors.As(err, &ioErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoFileExists(t, out)
}

func TestCombine_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 500)
	bogus := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a pdf"), 0644))
	out := filepath.Join(dir, "out.pdf")

	_, err := NewCombiner(nil).Combine(context.Background(), a, bogus, out)
	require.Error(t, err)

	var ioErr *fsutil.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "combine", ioErr.Op)
	assert.NoFileExists(t, out)
}

func TestCombine_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	a := pdftest.Write(t, filepath.Join(dir, "a.pdf"), 1, 500)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCombiner(nil).Combine(ctx, a, a, filepath.Join(dir, "out.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCombineAll_ChainsInOrder(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{
		pdftest.Write(t, filepath.Join(dir, "cover.pdf"), 1, 100),
		pdftest.Write(t, filepath.Join(dir, "resume.pdf"), 2, 200),
		pdftest.Write(t, filepath.Join(dir, "recs.pdf"), 1, 300),
		pdftest.Write(t, filepath.Join(dir, "transcript.pdf"), 2, 400),
	}
	out := filepath.Join(dir, "packet.pdf")

	require.NoError(t, CombineAll(context.Background(), NewCombiner(nil), inputs, out))

	assert.Equal(t, []int{101, 201, 202, 301, 401, 402}, pdftest.PageWidths(t, out))
	assert.NoError(t, VerifyPageCount(out, inputs...))
}

func TestCombineAll_SingleInputCopies(t *testing.T) {
	dir := t.TempDir()
	in := pdftest.Write(t, filepath.Join(dir, "cover.pdf"), 3, 100)
	out := filepath.Join(dir, "copy.pdf")

	require.NoError(t, CombineAll(context.Background(), NewCombiner(nil), []string{in}, out))

	count, err := CountPages(out)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCombineAll_NoInputs(t *testing.T) {
	err := CombineAll(context.Background(), NewCombiner(nil), nil, filepath.Join(t.TempDir(), "out.pdf"))
	assert.Error(t, err)
}

// recordingCombiner remembers every output path it was asked to write.
type recordingCombiner struct {
	outputs []string
	failAt  int
}

func (r *recordingCombiner) Combine(_ context.Context, _, _, outputPath string) (string, error) {
	r.outputs = append(r.outputs, outputPath)
	if len(r.outputs) == r.failAt {
		return "", errors.New("combine failed")
	}
	if err := os.WriteFile(outputPath, []byte("%PDF-1.4"), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func TestCombineAll_RemovesIntermediatesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingCombiner{}
	out := filepath.Join(dir, "out.pdf")

	require.NoError(t, CombineAll(context.Background(), rec, []string{"a", "b", "c", "d"}, out))

	require.Len(t, rec.outputs, 3)
	assert.Equal(t, out, rec.outputs[2])
	for _, intermediate := range rec.outputs[:2] {
		assert.NoFileExists(t, intermediate)
		assert.NoDirExists(t, filepath.Dir(intermediate))
	}
}

func TestCombineAll_RemovesIntermediatesOnFailure(t *testing.T) {
	dir := t.TempDir()
	rec := &recordingCombiner{failAt: 2}

	err := CombineAll(context.Background(), rec, []string{"a", "b", "c", "d"}, filepath.Join(dir, "out.pdf"))
	require.Error(t, err)

	require.Len(t, rec.outputs, 2)
	assert.NoFileExists(t, rec.outputs[0])
	assert.NoDirExists(t, filepath.Dir(rec.outputs[0]))
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestCountPages_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.pdf")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	_, err := CountPages(path)
	var ioErr *fsutil.IOError
	assert.True(t, errors.As(err, &ioErr))
}
