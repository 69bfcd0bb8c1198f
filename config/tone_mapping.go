package config

import (
	"fmt"
	"strings"
)

// ToneMapping selects the operator that maps HDR output to display range.
type ToneMapping int

const (
	ToneMappingNone ToneMapping = iota
	ToneMappingLinear
	ToneMappingReinhard
	ToneMappingCineon
	ToneMappingACESFilmic
)

var toneMappingNames = [...]string{"None", "Linear", "Reinhard", "Cineon", "ACESFilmic"}

// ToneMappings lists every mode in panel order.
func ToneMappings() []ToneMapping {
	return []ToneMapping{
		ToneMappingNone,
		ToneMappingLinear,
		ToneMappingReinhard,
		ToneMappingCineon,
		ToneMappingACESFilmic,
	}
}

func (t ToneMapping) Valid() bool {
	return t >= ToneMappingNone && t <= ToneMappingACESFilmic
}

func (t ToneMapping) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ToneMapping(%d)", int(t))
	}
	return toneMappingNames[t]
}

// ParseToneMapping accepts the mode names case-insensitively.
func ParseToneMapping(s string) (ToneMapping, error) {
	for i, name := range toneMappingNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return ToneMapping(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tone mapping %q", ErrInvalid, s)
}

func (t ToneMapping) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: tone mapping %d", ErrInvalid, int(t))
	}
	return []byte(t.String()), nil
}

func (t *ToneMapping) UnmarshalText(text []byte) error {
	v, err := ParseToneMapping(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
