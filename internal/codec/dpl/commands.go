// internal/codec/dpl/commands.go
package dpl

// Utility command templates in tokenized form; run them through
// EncodeLabel to substitute the active dialect's control codes.
const (
	PrintQualityLabel       = "<STX>T<CR>"
	PrintConfigurationLabel = "<STX>Z<CR>"
	GetConfiguration        = "<STX>KC<CR>"
	SetMetricMode           = "<STX>m<CR>"
	GetMemoryModuleInfo     = "<STX>Wse*<CR>"
	SetStandardControlCodes = "~KcCCS|"
	SetAlternate2Codes      = "<STX>KcCC2<CR>"
	SelectFontSymbolSet     = "<STX>ySCP<CR>"
)

// TestConnectionMarker is expected in the reply to GetConfiguration when
// the device on the other end really is a DPL printer.
const TestConnectionMarker = "PRINTER INFORMATION"
