package ocr

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/otiai10/gosseract/v2"
)

// The engine needs both tesseract model files: the orientation/script
// detection model and the language recognition model.
const (
	DetectionModel   = "osd.traineddata"
	RecognitionModel = "eng.traineddata"

	modelsDirName = "models"
)

// ModelNotFoundError reports that the model files were absent from both
// search locations.
type ModelNotFoundError struct {
	Primary  string
	Fallback string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("OCR model files %s and %s not found: tried %s and %s",
		DetectionModel, RecognitionModel, e.Primary, e.Fallback)
}

// Line is one recognized text line with its bounding box in image pixels.
type Line struct {
	Text   string
	X      int
	Y      int
	Width  int
	Height int
}

// Result holds the full recognized text plus the grouped lines.
type Result struct {
	Text  string
	Lines []Line
}

// LocateModels finds the directory holding both model files. The primary
// location is a models directory next to the executable; the fallback is the
// current working directory.
func LocateModels() (string, error) {
	primary := modelsDirName
	if execPath, err := os.Executable(); err == nil {
		primary = filepath.Join(filepath.Dir(execPath), modelsDirName)
	}
	fallback, err := os.Getwd()
	if err != nil {
		fallback = "."
	}

	for _, dir := range []string{primary, fallback} {
		if hasModels(dir) {
			return dir, nil
		}
	}
	return "", &ModelNotFoundError{Primary: primary, Fallback: fallback}
}

func hasModels(dir string) bool {
	for _, name := range []string{DetectionModel, RecognitionModel} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Engine wraps a tesseract client configured with the located models.
type Engine struct {
	client *gosseract.Client
}

// NewEngine locates the model files and builds the recognition engine.
func NewEngine() (*Engine, error) {
	dir, err := LocateModels()
	if err != nil {
		return nil, err
	}
	log.Printf("OCR models loaded from %s", dir)

	client := gosseract.NewClient()
	if err := client.SetTessdataPrefix(dir); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set model directory: %v", err)
	}
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to select recognition model: %v", err)
	}
	return &Engine{client: client}, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}

// Recognize runs detection, line grouping, and recognition over an encoded
// image and returns the extracted text with per-line boxes.
func (e *Engine) Recognize(imageData []byte) (*Result, error) {
	if err := e.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to load image for OCR: %v", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR recognition failed: %v", err)
	}

	result := &Result{Text: text}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Line geometry is best-effort; the recognized text stands alone.
		log.Printf("OCR line grouping failed: %v", err)
		return result, nil
	}
	for _, b := range boxes {
		result.Lines = append(result.Lines, Line{
			Text:   b.Word,
			X:      b.Box.Min.X,
			Y:      b.Box.Min.Y,
			Width:  b.Box.Dx(),
			Height: b.Box.Dy(),
		})
	}
	return result, nil
}
