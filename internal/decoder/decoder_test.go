package decoder

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types/>`))
	require.NoError(t, err)
	if body != "" {
		w, err = zw.Create(docxBody)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Python developer</w:t></w:r><w:r><w:t xml:space="preserve"> with Flask</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go</w:t><w:br/><w:t>SQL</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestDOCXDecode(t *testing.T) {
	text, err := DOCX{}.Decode(buildDOCX(t, documentXML))
	require.NoError(t, err)
	assert.Equal(t, "Python developer with Flask\nSkills:\tGo\nSQL", text)
}

func TestDOCXMissingBody(t *testing.T) {
	_, err := DOCX{}.Decode(buildDOCX(t, ""))
	assert.Error(t, err)
}

func TestDOCXNotZip(t *testing.T) {
	_, err := DOCX{}.Decode([]byte("plain text"))
	assert.Error(t, err)
}

func TestHTMLDecode(t *testing.T) {
	page := `<html><head><title>Job</title><style>p{color:red}</style></head>
<body><h1>Backend Engineer</h1><script>var x = "hidden";</script><p>Go &amp; Kafka</p></body></html>`
	text, err := HTML{}.Decode([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "Job Backend Engineer Go & Kafka", text)
}

func TestPlainTextDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"utf8", []byte("Zürich developer"), "Zürich developer"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("go")...), "go"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'g', 0, 'o', 0}, "go"},
		{"invalid bytes", []byte{'g', 0xFF, 'o'}, "g\uFFFDo"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText{}.Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".docx", ".htm", ".html", ".md", ".txt"}, r.Extensions())
	assert.True(t, r.Supports("CV.DOCX"))
	assert.False(t, r.Supports("cv.pdf"))

	_, err = r.Decode("cv.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	text, err := r.Decode("notes.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestRegistryRestricted(t *testing.T) {
	r, err := NewRegistry([]string{"docx", ".TXT"})
	require.NoError(t, err)
	assert.Equal(t, []string{".docx", ".txt"}, r.Extensions())
	assert.False(t, r.Supports("page.html"))

	_, err = NewRegistry([]string{".pdf"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistryRegister(t *testing.T) {
	r, err := NewRegistry([]string{".txt"})
	require.NoError(t, err)
	r.Register("rtf", DecoderFunc(func(data []byte) (string, error) { return "rtf:" + string(data), nil }))
	text, err := r.Decode("cv.rtf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "rtf:x", text)
}
