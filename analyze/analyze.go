// Package analyze fans the optional post-capture steps out to goroutines.
// OCR and remote vision inference run concurrently once the frame is encoded;
// they share no mutable state and each failure is reported independently.
package analyze

import (
	"log"
	"sync"

	"capprobe/llm"
	"capprobe/ocr"
)

// Request names the optional steps to run against one encoded image.
type Request struct {
	Encoded []byte
	RunOCR  bool
	RunLLM  bool
	Prompt  string
}

// Report carries each step's outcome separately. A failed step never
// invalidates the other step's result.
type Report struct {
	OCR     *ocr.Result
	OCRErr  error
	LLMText string
	LLMErr  error
}

// Run dispatches the requested steps and blocks until both finish. Each step
// is a one-shot call with no retry.
func Run(req Request) Report {
	var report Report
	var wg sync.WaitGroup

	if req.RunOCR {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine, err := ocr.NewEngine()
			if err != nil {
				report.OCRErr = err
				return
			}
			defer engine.Close()
			log.Printf("analyze: running OCR over %d encoded bytes", len(req.Encoded))
			report.OCR, report.OCRErr = engine.Recognize(req.Encoded)
		}()
	}

	if req.RunLLM {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("analyze: querying vision model")
			report.LLMText, report.LLMErr = llm.Describe(req.Encoded, req.Prompt)
		}()
	}

	wg.Wait()
	return report
}
