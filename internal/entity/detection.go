package entity

// Vertex is one corner of a detection's bounding polygon.
type Vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingPoly is an ordered list of vertices around a detection.
type BoundingPoly struct {
	Vertices []Vertex `json:"vertices"`
}

// RawDetection is one span of recognized text supplied by the OCR collaborator.
type RawDetection struct {
	Text         string       `json:"text"`
	Confidence   float64      `json:"confidence"`
	BoundingPoly BoundingPoly `json:"boundingPoly"`
}

// OCRPayload is the OCR collaborator's output as handed to the parser.
type OCRPayload struct {
	Text       string         `json:"text"`
	Detections []RawDetection `json:"detections"`
}

// IsEmpty reports whether the payload carries neither text nor detections.
func (p OCRPayload) IsEmpty() bool {
	if len(p.Detections) > 0 {
		return false
	}
	for _, r := range p.Text {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned box around the polygon.
func (b BoundingPoly) Bounds() (minX, minY, maxX, maxY int) {
	for i, v := range b.Vertices {
		if i == 0 || v.X < minX {
			minX = v.X
		}
		if i == 0 || v.Y < minY {
			minY = v.Y
		}
		if i == 0 || v.X > maxX {
			maxX = v.X
		}
		if i == 0 || v.Y > maxY {
			maxY = v.Y
		}
	}
	return
}
