package ingest

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/voicelens/errors"
)

// DefaultMaxSize is the upload limit used when none is configured.
const DefaultMaxSize int64 = 10 << 20

// FormField is the multipart field carrying the audio upload.
const FormField = "audio"

// containerTypes are non-audio media types browsers and recorders commonly
// attach to audio-only blobs.
var containerTypes = map[string]bool{
	"video/webm":               true,
	"video/mp4":                true,
	"application/octet-stream": true,
}

// audioExtensions resolves common recording formats without relying on the
// host's mime.types.
var audioExtensions = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".mp4":  "video/mp4",
}

func mimeFromName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := audioExtensions[ext]; ok {
		return mt
	}
	return mime.TypeByExtension(ext)
}

// Payload is an uploaded audio file held in memory.
type Payload struct {
	data     []byte
	Filename string
	MIMEType string
}

// NewPayload copies data into a new Payload.
func NewPayload(data []byte, filename, mimeType string) Payload {
	return Payload{
		data:     bytes.Clone(data),
		Filename: filename,
		MIMEType: mimeType,
	}
}

// Size returns the payload length in bytes.
func (p Payload) Size() int64 { return int64(len(p.data)) }

// Reader returns a fresh reader over the payload bytes.
func (p Payload) Reader() io.Reader { return bytes.NewReader(p.data) }

// Bytes returns a copy of the payload bytes.
func (p Payload) Bytes() []byte { return bytes.Clone(p.data) }

// IsAudioMIME reports whether mimeType is acceptable for an audio upload.
// Parameters such as "; codecs=opus" are ignored.
func IsAudioMIME(mimeType string) bool {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}
	return strings.HasPrefix(mt, "audio/") || containerTypes[mt]
}

// FromMultipart reads and validates an uploaded file. A nil header means the
// request carried no file.
func FromMultipart(fh *multipart.FileHeader, limit int64) (Payload, error) {
	if fh == nil {
		return Payload{}, apperrors.MissingField(FormField, "No audio file provided")
	}
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	if fh.Size > limit {
		return Payload{}, apperrors.PayloadTooLarge(fh.Size, limit)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeFromName(fh.Filename)
	}
	if !IsAudioMIME(mimeType) {
		return Payload{}, apperrors.InvalidInput(FormField, fmt.Sprintf("unsupported media type %q", mimeType))
	}

	f, err := fh.Open()
	if err != nil {
		return Payload{}, apperrors.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	data, err := readLimited(f, limit)
	if err != nil {
		return Payload{}, err
	}
	return Payload{data: data, Filename: fh.Filename, MIMEType: mimeType}, nil
}

// FromFile reads a local audio file, detecting its media type from the
// extension or, failing that, from the content.
func FromFile(path string, limit int64) (Payload, error) {
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, apperrors.InvalidInput("file", err.Error())
	}
	defer f.Close()

	data, err := readLimited(f, limit)
	if err != nil {
		return Payload{}, err
	}

	mimeType := mimeFromName(path)
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !IsAudioMIME(mimeType) {
		return Payload{}, apperrors.InvalidInput("file", fmt.Sprintf("unsupported media type %q", mimeType))
	}
	return Payload{data: data, Filename: filepath.Base(path), MIMEType: mimeType}, nil
}

// readLimited reads at most limit bytes and fails if there are more.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("read upload: %w", err))
	}
	if int64(len(data)) > limit {
		return nil, apperrors.PayloadTooLarge(int64(len(data)), limit)
	}
	return data, nil
}
