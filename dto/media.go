package dto

type MediaUploadResponse struct {
	ObjectKey   string `json:"object_key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
