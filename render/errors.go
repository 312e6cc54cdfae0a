package render

import "errors"

// Sentinel errors for PDF rendering.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrSessionClosed  = errors.New("browser session already closed")
)
