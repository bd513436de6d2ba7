package contract

import (
	"context"
	"errors"
)

// ErrEngineUnavailable marks an engine that cannot run on this host. The
// generator moves on to the next engine when it sees it.
var ErrEngineUnavailable = errors.New("pdf engine unavailable")

const (
	MsgNoEngine     = "ไม่สามารถสร้าง PDF ได้ เนื่องจาก Chromium หรือ fpdf ไม่พร้อมใช้งาน กรุณาติดตั้ง Chromium หรือเปิดใช้งาน fpdf ในค่า PDF_ENGINES"
	MsgRenderFailed = "ไม่สามารถสร้างไฟล์ PDF ได้ กรุณาตรวจสอบการติดตั้งไลบรารีและฟอนต์ภาษาไทย"
)

// Document is handed to every engine; HTML engines use HTML and layout
// engines draw from Data directly.
type Document struct {
	HTML  string
	Data  Data
	Fonts FontSet
}

type Engine interface {
	Name() string
	Render(ctx context.Context, doc Document) ([]byte, error)
}
