package format

import "testing"

// --- Detection tests ---

func TestDetect_ByExtension(t *testing.T) {
	cases := []struct {
		fileName string
		want     Format
	}{
		{"report.pdf", PDF},
		{"notes.docx", DOCX},
		{"legacy.doc", DOC},
		{"readme.txt", TXT},
		{"lecture.mp3", Audio},
		{"interview.wav", Audio},
		{"podcast.m4a", Audio},
		{"talk.mp4", Video},
		{"demo.mov", Video},
		{"slides.pptx", Presentation},
		{"slides.ppt", Presentation},
		{"bundle.zip", Archive},
		{"diagram.png", Image},
		{"photo.JPG", Image},
		{"REPORT.PDF", PDF},
		{"weird.xyz", Unsupported},
		{"noextension", Unsupported},
		{"", Unsupported},
	}
	for _, c := range cases {
		if got := Detect(c.fileName, ""); got != c.want {
			t.Errorf("Detect(%q) = %q, want %q", c.fileName, got, c.want)
		}
	}
}

func TestDetect_ByMIMEType(t *testing.T) {
	cases := []struct {
		fileName string
		mime     string
		want     Format
	}{
		{"upload.bin", "application/pdf", PDF},
		{"upload.bin", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", DOCX},
		{"upload.bin", "application/msword", DOC},
		{"upload.bin", "text/plain", TXT},
		{"upload.bin", "text/plain; charset=utf-8", TXT},
		{"upload.bin", "audio/mpeg", Audio},
		{"upload.bin", "video/mp4", Video},
		{"upload.bin", "image/png", Image},
		{"upload.bin", "application/zip", Archive},
		{"upload.bin", "application/octet-stream", Unsupported},
	}
	for _, c := range cases {
		if got := Detect(c.fileName, c.mime); got != c.want {
			t.Errorf("Detect(%q, %q) = %q, want %q", c.fileName, c.mime, got, c.want)
		}
	}
}

func TestDetect_MIMEWinsOverExtension(t *testing.T) {
	// A declared video/webm beats the audio-by-default .webm extension.
	if got := Detect("recording.webm", "video/webm"); got != Video {
		t.Errorf("Detect(recording.webm, video/webm) = %q, want %q", got, Video)
	}
	if got := Detect("recording.webm", ""); got != Audio {
		t.Errorf("Detect(recording.webm) = %q, want %q", got, Audio)
	}
}

func TestDetect_MIMEFamilyFallback(t *testing.T) {
	cases := []struct {
		mime string
		want Format
	}{
		{"audio/aac", Audio},
		{"video/3gpp", Video},
		{"text/markdown", TXT},
		{"image/x-icon", Image},
	}
	for _, c := range cases {
		if got := Detect("upload.bin", c.mime); got != c.want {
			t.Errorf("Detect(upload.bin, %q) = %q, want %q", c.mime, got, c.want)
		}
	}
}

// --- Transcription MIME helpers ---

func TestAudioMIMEType(t *testing.T) {
	cases := []struct {
		fileName string
		want     string
	}{
		{"a.mp3", "audio/mpeg"},
		{"a.m4a", "audio/mp4"},
		{"a.wav", "audio/wav"},
		{"a.ogg", "audio/ogg"},
		{"a.unknown", "audio/mpeg"},
	}
	for _, c := range cases {
		if got := AudioMIMEType(c.fileName); got != c.want {
			t.Errorf("AudioMIMEType(%q) = %q, want %q", c.fileName, got, c.want)
		}
	}
}

func TestVideoMIMEType(t *testing.T) {
	cases := []struct {
		fileName string
		want     string
	}{
		{"v.mp4", "video/mp4"},
		{"v.mov", "video/quicktime"},
		{"v.mkv", "video/x-matroska"},
		{"v.unknown", "video/mp4"},
	}
	for _, c := range cases {
		if got := VideoMIMEType(c.fileName); got != c.want {
			t.Errorf("VideoMIMEType(%q) = %q, want %q", c.fileName, got, c.want)
		}
	}
}

func TestSupportedExtensions(t *testing.T) {
	families := SupportedExtensions()
	for _, family := range []string{"documents", "audio", "video"} {
		if len(families[family]) == 0 {
			t.Errorf("SupportedExtensions missing family %q", family)
		}
	}
}
