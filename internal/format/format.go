// Package format classifies uploaded files into extraction formats based on
// the file name extension and the declared MIME type. Classification is pure
// metadata: no content sniffing is performed, so a mislabeled file is caught
// later by the extractor itself.
package format

import (
	"path/filepath"
	"strings"
)

// Format identifies the extraction strategy for an uploaded file.
type Format string

const (
	PDF          Format = "pdf"
	DOCX         Format = "docx"
	DOC          Format = "doc"
	TXT          Format = "txt"
	Audio        Format = "audio"
	Video        Format = "video"
	Presentation Format = "presentation"
	Archive      Format = "archive"
	Image        Format = "image"
	Unsupported  Format = "unsupported"
)

// mimeFormats maps exact (parameter-stripped, lower-cased) MIME types to formats.
var mimeFormats = map[string]Format{
	"application/pdf":    PDF,
	"application/msword": DOC,
	"text/plain":         TXT,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": DOCX,

	"audio/mpeg":  Audio,
	"audio/mp3":   Audio,
	"audio/mp4":   Audio,
	"audio/wav":   Audio,
	"audio/x-wav": Audio,
	"audio/webm":  Audio,
	"audio/ogg":   Audio,
	"audio/flac":  Audio,

	"video/mp4":        Video,
	"video/quicktime":  Video,
	"video/x-msvideo":  Video,
	"video/webm":       Video,
	"video/x-matroska": Video,
	"video/mpeg":       Video,

	"application/vnd.ms-powerpoint": Presentation,

	"application/vnd.openxmlformats-officedocument.presentationml.presentation": Presentation,

	"application/zip":              Archive,
	"application/x-zip-compressed": Archive,
	"application/x-rar-compressed": Archive,
	"application/x-7z-compressed":  Archive,
	"application/gzip":             Archive,
	"application/x-tar":            Archive,

	"image/jpeg":    Image,
	"image/png":     Image,
	"image/gif":     Image,
	"image/webp":    Image,
	"image/bmp":     Image,
	"image/tiff":    Image,
	"image/svg+xml": Image,
}

// extFormats maps lower-cased extensions (no leading dot) to formats.
// webm is classified as audio by extension; a declared video/webm MIME type
// wins over the extension and classifies it as video.
var extFormats = map[string]Format{
	"pdf": PDF,

	"docx": DOCX,
	"doc":  DOC,

	"txt":  TXT,
	"text": TXT,

	"mp3":  Audio,
	"wav":  Audio,
	"m4a":  Audio,
	"ogg":  Audio,
	"flac": Audio,
	"webm": Audio,

	"mp4":  Video,
	"mov":  Video,
	"avi":  Video,
	"mkv":  Video,
	"mpeg": Video,
	"mpg":  Video,

	"ppt":  Presentation,
	"pptx": Presentation,
	"key":  Presentation,
	"odp":  Presentation,

	"zip": Archive,
	"rar": Archive,
	"7z":  Archive,
	"tar": Archive,
	"gz":  Archive,

	"jpg":  Image,
	"jpeg": Image,
	"png":  Image,
	"gif":  Image,
	"webp": Image,
	"bmp":  Image,
	"tiff": Image,
	"svg":  Image,
}

// Detect classifies a file by its name and optional declared MIME type.
// An exact MIME match wins; otherwise the extension decides; as a last
// resort the MIME top-level family (audio/, video/, text/, image/) is used.
// Detect never fails: anything unrecognized is Unsupported.
func Detect(fileName, declaredMIME string) Format {
	mime := normalizeMIME(declaredMIME)
	if f, ok := mimeFormats[mime]; ok {
		return f
	}

	ext := normalizeExt(fileName)
	if f, ok := extFormats[ext]; ok {
		return f
	}

	switch {
	case strings.HasPrefix(mime, "audio/"):
		return Audio
	case strings.HasPrefix(mime, "video/"):
		return Video
	case strings.HasPrefix(mime, "text/"):
		return TXT
	case strings.HasPrefix(mime, "image/"):
		return Image
	}

	return Unsupported
}

// normalizeExt returns the lower-cased file extension without the leading dot.
func normalizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return strings.TrimPrefix(ext, ".")
}

// normalizeMIME lower-cases a MIME type and strips parameters
// (e.g. "text/plain; charset=utf-8" -> "text/plain").
func normalizeMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}

// AudioMIMEType returns the MIME type to declare when sending an audio file
// to the transcription service, based on the file extension.
func AudioMIMEType(fileName string) string {
	types := map[string]string{
		"mp3":  "audio/mpeg",
		"mp4":  "audio/mp4",
		"m4a":  "audio/mp4",
		"wav":  "audio/wav",
		"webm": "audio/webm",
		"ogg":  "audio/ogg",
		"flac": "audio/flac",
	}
	if t, ok := types[normalizeExt(fileName)]; ok {
		return t
	}
	return "audio/mpeg"
}

// VideoMIMEType returns the MIME type to declare when sending a video file
// to the transcription service, based on the file extension.
func VideoMIMEType(fileName string) string {
	types := map[string]string{
		"mp4":  "video/mp4",
		"mov":  "video/quicktime",
		"avi":  "video/x-msvideo",
		"webm": "video/webm",
		"mkv":  "video/x-matroska",
		"mpeg": "video/mpeg",
		"mpg":  "video/mpeg",
	}
	if t, ok := types[normalizeExt(fileName)]; ok {
		return t
	}
	return "video/mp4"
}

// SupportedExtensions lists the accepted upload extensions by family,
// used to build user-facing guidance in error messages.
func SupportedExtensions() map[string][]string {
	return map[string][]string{
		"documents":     {".pdf", ".doc", ".docx", ".txt"},
		"presentations": {".ppt", ".pptx"},
		"audio":         {".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"},
		"video":         {".mp4", ".mov", ".avi", ".webm", ".mkv", ".mpeg", ".mpg"},
		"archives":      {".zip"},
	}
}
