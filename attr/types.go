package attr

import (
	"fmt"
	"slices"
	"strings"
)

// DataType is a builtin Groonga column or key type.
type DataType Symbol

const (
	Object        DataType = "Object"
	Bool          DataType = "Bool"
	Int8          DataType = "Int8"
	UInt8         DataType = "UInt8"
	Int16         DataType = "Int16"
	UInt16        DataType = "UInt16"
	Int32         DataType = "Int32"
	UInt32        DataType = "UInt32"
	Int64         DataType = "Int64"
	UInt64        DataType = "UInt64"
	Float         DataType = "Float"
	Time          DataType = "Time"
	ShortText     DataType = "ShortText"
	Text          DataType = "Text"
	LongText      DataType = "LongText"
	TokyoGeoPoint DataType = "TokyoGeoPoint"
	WGS84GeoPoint DataType = "WGS84GeoPoint"
)

var dataTypes = []DataType{Object, Bool, Int8, UInt8, Int16, UInt16, Int32, UInt32,
	Int64, UInt64, Float, Time, ShortText, Text, LongText, TokyoGeoPoint, WGS84GeoPoint}

func (t DataType) String() string { return string(t) }

// IsNumeric reports whether values of t decode as numbers.
func (t DataType) IsNumeric() bool {
	switch t {
	case Int8, UInt8, Int16, UInt16, Int32, UInt32, Int64, UInt64, Float, Time:
		return true
	}
	return false
}

// IsGeo reports whether t is one of the geo point types.
func (t DataType) IsGeo() bool {
	return t == TokyoGeoPoint || t == WGS84GeoPoint
}

// ParseDataType returns the builtin type named s.
func ParseDataType(s string) (DataType, bool) {
	t := DataType(s)
	return t, slices.Contains(dataTypes, t)
}

// Tokenizer names a default tokenizer of a lexicon table.
type Tokenizer Symbol

const (
	TokenBigram                           Tokenizer = "TokenBigram"
	TokenBigramSplitSymbol                Tokenizer = "TokenBigramSplitSymbol"
	TokenBigramSplitSymbolAlpha           Tokenizer = "TokenBigramSplitSymbolAlpha"
	TokenBigramSplitSymbolAlphaDigit      Tokenizer = "TokenBigramSplitSymbolAlphaDigit"
	TokenBigramIgnoreBlank                Tokenizer = "TokenBigramIgnoreBlank"
	TokenBigramIgnoreBlankSplitSymbol     Tokenizer = "TokenBigramIgnoreBlankSplitSymbol"
	TokenBigramIgnoreBlankSplitAlpha      Tokenizer = "TokenBigramIgnoreBlankSplitAlpha"
	TokenBigramIgnoreBlankSplitAlphaDigit Tokenizer = "TokenBigramIgnoreBlankSplitAlphaDigit"
	TokenDelimit                          Tokenizer = "TokenDelimit"
	TokenDelimitNull                      Tokenizer = "TokenDelimitNull"
	TokenTrigram                          Tokenizer = "TokenTrigram"
	TokenUnigram                          Tokenizer = "TokenUnigram"
	TokenMecab                            Tokenizer = "TokenMecab"
)

func (t Tokenizer) String() string { return string(t) }

// Normalizer names a key normalizer.
type Normalizer Symbol

const (
	NormalizerAuto   Normalizer = "NormalizerAuto"
	NormalizerNFKC51 Normalizer = "NormalizerNFKC51"
)

func (n Normalizer) String() string { return string(n) }

// LogLevel is a server log level accepted by log_level and log_put.
type LogLevel Symbol

const (
	LogEmerg   LogLevel = "EMERG"
	LogAlert   LogLevel = "ALERT"
	LogCrit    LogLevel = "CRIT"
	LogError   LogLevel = "error"
	LogWarning LogLevel = "warning"
	LogNotice  LogLevel = "notice"
	LogInfo    LogLevel = "info"
	LogDebug   LogLevel = "debug"

	// aliases
	LogEmergency = LogEmerg
	LogCritical  = LogCrit
)

func (l LogLevel) String() string { return string(l) }

var logLevelAliases = map[string]LogLevel{
	"emerg":     LogEmerg,
	"emergency": LogEmerg,
	"alert":     LogAlert,
	"crit":      LogCrit,
	"critical":  LogCrit,
	"error":     LogError,
	"warning":   LogWarning,
	"notice":    LogNotice,
	"info":      LogInfo,
	"debug":     LogDebug,
}

// ParseLogLevel accepts a level name in any case, including the long
// aliases EMERGENCY and CRITICAL.
func ParseLogLevel(s string) (LogLevel, error) {
	l, ok := logLevelAliases[strings.ToLower(s)]
	if !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
