package models

// VisionImage is a vision board picture; ImageData holds the base64-encoded file.
type VisionImage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageData string `json:"image_data"`
}
