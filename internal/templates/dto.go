package templates

import "time"

// TemplateResponse is the outward-facing representation of a template.
type TemplateResponse struct {
	TemplateID string    `json:"templateId"`
	Kind       string    `json:"kind"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(tpl Template) TemplateResponse {
	return TemplateResponse{
		TemplateID: tpl.ID,
		Kind:       string(tpl.Kind),
		FileName:   tpl.FileName,
		MimeType:   tpl.MimeType,
		SizeBytes:  tpl.SizeBytes,
		UploadedAt: tpl.CreatedAt,
	}
}
