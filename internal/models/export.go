package models

// ExportSize is one App Store Connect screenshot size
type ExportSize struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ExportSizes is the fixed table of supported export dimensions. The pixel
// values are App Store Connect requirements and must not drift.
var ExportSizes = []ExportSize{
	{Key: "iphone-6.7", Label: `iPhone 6.7"`, Width: 1290, Height: 2796},
	{Key: "iphone-6.5", Label: `iPhone 6.5"`, Width: 1242, Height: 2688},
	{Key: "iphone-5.5", Label: `iPhone 5.5"`, Width: 1242, Height: 2208},
	{Key: "ipad-12.9", Label: `iPad Pro 12.9"`, Width: 2048, Height: 2732},
	{Key: "ipad-11", Label: `iPad Pro 11"`, Width: 1668, Height: 2388},
}

// FindExportSize looks up a size by key. The second return is false for
// unknown keys.
func FindExportSize(key string) (ExportSize, bool) {
	for _, s := range ExportSizes {
		if s.Key == key {
			return s, true
		}
	}
	return ExportSize{}, false
}
