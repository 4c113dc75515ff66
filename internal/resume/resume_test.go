package resume

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{"pdf ok", MIMEPDF, 1024, nil},
		{"docx ok", MIMEDOCX, 2048, nil},
		{"doc ok", MIMEDOC, 2048, nil},
		{"exactly 5MB", MIMEPDF, 5 << 20, nil},
		{"with params", "application/pdf; charset=binary", 10, nil},
		{"over 5MB", MIMEPDF, 5<<20 + 1, ErrTooLarge},
		{"png", "image/png", 10, ErrUnsupportedType},
		{"empty type", "", 10, ErrUnsupportedType},
		{"empty file", MIMEPDF, 0, ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.contentType, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateMaxOverridesCeiling(t *testing.T) {
	assert.ErrorIs(t, ValidateMax(MIMEPDF, 2000, 1000), ErrTooLarge)
	assert.NoError(t, ValidateMax(MIMEPDF, 2000, 4000))
}

func TestSniffReplaysHead(t *testing.T) {
	body := "%PDF-1.4\n" + strings.Repeat("x", 5000)
	ct, r, err := Sniff(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, MIMEPDF, ct)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, body, string(all))
}

func TestSniffShortInput(t *testing.T) {
	ct, r, err := Sniff(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	all, _ := io.ReadAll(r)
	assert.Equal(t, "hello", string(all))
}

func TestResolveType(t *testing.T) {
	assert.Equal(t, MIMEPDF, ResolveType("", MIMEPDF))
	assert.Equal(t, MIMEPDF, ResolveType("application/octet-stream", MIMEPDF))
	assert.Equal(t, MIMEDOCX, ResolveType(MIMEDOCX, "application/zip"))
}

type fakePages struct {
	pages []string
	err   error
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(i int) (string, error) {
	if f.err != nil && i == len(f.pages) {
		return "", f.err
	}
	return f.pages[i-1], nil
}

func TestJoinPages(t *testing.T) {
	out, err := joinPages(fakePages{pages: []string{" Jane Doe ", "Go, Kubernetes"}})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nGo, Kubernetes\n\n", out)

	out, err = joinPages(fakePages{})
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = joinPages(fakePages{pages: []string{"a", "b"}, err: errors.New("bad font")})
	assert.Error(t, err)
}

func TestExtractNonPDFIsEmpty(t *testing.T) {
	out, err := ExtractBytes([]byte("PK\x03\x04 docx bytes"), MIMEDOCX)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := ExtractBytes([]byte("not a pdf at all"), MIMEPDF)
	assert.Error(t, err)
}
