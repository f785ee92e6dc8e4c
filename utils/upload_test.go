package utils

import (
	"mime/multipart"
	"net/textproto"
	"testing"
)

func photoHeader(name, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	return &multipart.FileHeader{
		Filename: name,
		Header:   header,
		Size:     size,
	}
}

func TestValidatePhoto(t *testing.T) {
	cases := []struct {
		name string
		file *multipart.FileHeader
		ok   bool
	}{
		{"jpeg", photoHeader("pothole.jpg", "image/jpeg", 1024), true},
		{"jpeg alt extension", photoHeader("pothole.jpeg", "image/jpeg", 1024), true},
		{"png", photoHeader("lamp.png", "image/png", MaxPhotoSize), true},
		{"oversized", photoHeader("big.jpg", "image/jpeg", MaxPhotoSize+1), false},
		{"gif", photoHeader("anim.gif", "image/gif", 1024), false},
		{"pdf disguised as jpg", photoHeader("doc.jpg", "application/pdf", 1024), false},
		{"jpg content with exe name", photoHeader("evil.exe", "image/jpeg", 1024), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePhoto(tc.file)
			if tc.ok && err != nil {
				t.Errorf("ValidatePhoto = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("ValidatePhoto = nil, want error")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("citizen@city.example") {
		t.Error("valid email rejected")
	}
	for _, bad := range []string{"", "nope", "a@b", "@city.example"} {
		if ValidateEmail(bad) {
			t.Errorf("invalid email %q accepted", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Error("valid password rejected")
	}
	if ok, reason := ValidatePassword("short"); ok || reason == "" {
		t.Error("short password accepted")
	}
}
