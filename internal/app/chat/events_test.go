package chat

import (
	"strings"
	"testing"

	"lanchat/internal/pkg/errs"
)

func TestDecodeInboundValid(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  InboundEvent
	}{
		{"join with name", `{"event":"join","data":{"name":"  Alice "}}`, JoinEvent{Name: "Alice"}},
		{"join without data", `{"event":"join"}`, JoinEvent{}},
		{"join with null data", `{"event":"join","data":null}`, JoinEvent{}},
		{"chat", `{"event":"chatMessage","data":{"text":"hi"}}`, ChatMessageEvent{Text: "hi"}},
		{
			"image",
			`{"event":"imageMessage","data":{"url":"/uploads/abc-cat.png","filename":"abc-cat.png"}}`,
			ImageMessageEvent{URL: "/uploads/abc-cat.png", Filename: "abc-cat.png"},
		},
		{
			"image absolute url",
			`{"event":"imageMessage","data":{"url":"https://lan.example/cat.JPG","filename":"cat.JPG"}}`,
			ImageMessageEvent{URL: "https://lan.example/cat.JPG", Filename: "cat.JPG"},
		},
		{
			"image from a phone camera",
			`{"event":"imageMessage","data":{"url":"/uploads/abc-IMG_0001.HEIC","filename":"abc-IMG_0001.HEIC"}}`,
			ImageMessageEvent{URL: "/uploads/abc-IMG_0001.HEIC", Filename: "abc-IMG_0001.HEIC"},
		},
		{
			"image tiff",
			`{"event":"imageMessage","data":{"url":"/uploads/abc-scan.tiff","filename":"abc-scan.tiff"}}`,
			ImageMessageEvent{URL: "/uploads/abc-scan.tiff", Filename: "abc-scan.tiff"},
		},
		{
			"file",
			`{"event":"fileMessage","data":{"url":"/uploads/k-a.zip","filename":"k-a.zip","originalname":"a.zip","size":0}}`,
			FileMessageEvent{URL: "/uploads/k-a.zip", Filename: "k-a.zip", OriginalName: "a.zip", Size: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.frame))
			if err != nil {
				t.Fatalf("DecodeInbound() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeInbound() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeInboundInvalid(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		wantCode int
	}{
		{"not json", `hello`, errs.ErrInvalidJSONFormat},
		{"unknown event", `{"event":"typing","data":{}}`, errs.ErrUnsupportedEvent},
		{"missing event", `{"data":{"text":"x"}}`, errs.ErrUnsupportedEvent},
		{"join name too long", `{"event":"join","data":{"name":"` + strings.Repeat("n", MaxNameLength+1) + `"}}`, errs.ErrNameTooLong},
		{"join bad shape", `{"event":"join","data":{"name":5}}`, errs.ErrInvalidEventPayload},
		{"chat without data", `{"event":"chatMessage"}`, errs.ErrInvalidEventPayload},
		{"chat wrong type", `{"event":"chatMessage","data":{"text":42}}`, errs.ErrInvalidEventPayload},
		{"chat blank", `{"event":"chatMessage","data":{"text":"   "}}`, errs.ErrMessageContentEmpty},
		{"chat too long", `{"event":"chatMessage","data":{"text":"` + strings.Repeat("x", MaxContentBytes+1) + `"}}`, errs.ErrMessageContentTooLong},
		{"image missing url", `{"event":"imageMessage","data":{"filename":"a.png"}}`, errs.ErrInvalidEventPayload},
		{"image not an image", `{"event":"imageMessage","data":{"url":"/uploads/a.exe","filename":"a.exe"}}`, errs.ErrAttachmentInvalid},
		{"image bad url", `{"event":"imageMessage","data":{"url":"javascript:alert(1)","filename":"a.png"}}`, errs.ErrAttachmentInvalid},
		{"image nested path", `{"event":"imageMessage","data":{"url":"/uploads/../secret.png","filename":"a.png"}}`, errs.ErrAttachmentInvalid},
		{"file missing originalname", `{"event":"fileMessage","data":{"url":"/uploads/a","filename":"a","size":1}}`, errs.ErrInvalidEventPayload},
		{"file negative size", `{"event":"fileMessage","data":{"url":"/uploads/a","filename":"a","originalname":"a","size":-1}}`, errs.ErrInvalidEventPayload},
		{"file bare prefix", `{"event":"fileMessage","data":{"url":"/uploads/","filename":"a","originalname":"a","size":1}}`, errs.ErrAttachmentInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.frame))
			if err == nil {
				t.Fatalf("DecodeInbound() = %#v, want error %d", got, tt.wantCode)
			}
			if err.Code != tt.wantCode {
				t.Errorf("error code = %d (%s), want %d", err.Code, err.Message, tt.wantCode)
			}
		})
	}
}

func TestMessageContentApply(t *testing.T) {
	var msg Message
	FileMessageEvent{URL: "/uploads/k-a.zip", Filename: "k-a.zip", OriginalName: "a.zip", Size: 12}.apply(&msg)

	if msg.URL != "/uploads/k-a.zip" || msg.Filename != "k-a.zip" || msg.OriginalName != "a.zip" {
		t.Errorf("apply() = %+v", msg)
	}
	if msg.Size == nil || *msg.Size != 12 {
		t.Errorf("Size = %v, want 12", msg.Size)
	}
}
