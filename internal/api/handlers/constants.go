package handlers

const (
	// Upload limits
	maxScreenshotsPerRequest = 5
	maxPromptLength          = 2000

	// Share QR codes are embedded as data URIs in the share response
	pngMIMEType = "image/png"
)
