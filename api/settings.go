package hostapi

import "strings"

// Setting names a semantic core setting in the configuration store.
// Its value is the key the store files it under.
type Setting string

const (
	SettingInternalResolution Setting = "internal_resolution"
	SettingDithering          Setting = "dithering"
	SettingEnhancedResolution Setting = "enhanced_resolution"
	SettingAudioInterpolation Setting = "audio_interpolation"
	SettingSuperFXOverclock   Setting = "superfx_overclock"
	SettingReduceSlowdown     Setting = "reduce_slowdown"
	SettingRegion             Setting = "region"
	SettingAudioQuality       Setting = "audio_quality"
	SettingM68KOverclock      Setting = "m68k_overclock"
)

// Region is a console region choice as stored in the configuration.
type Region string

const (
	RegionAuto   Region = "Auto"
	RegionJapan  Region = "Japan"
	RegionUSA    Region = "USA"
	RegionEurope Region = "Europe"
)

// regionTokens are checked in order, so a stored label only has to
// contain the region name ("USA (NTSC)").
var regionTokens = []struct {
	region Region
	token  string
}{
	{RegionAuto, "auto"},
	{RegionJapan, "ntsc-j"},
	{RegionUSA, "ntsc-u"},
	{RegionEurope, "pal"},
}

// Token returns the value cores expect for the region option. Unknown
// choices fall back to automatic detection.
func (r Region) Token() string {
	for _, rt := range regionTokens {
		if strings.Contains(string(r), string(rt.region)) {
			return rt.token
		}
	}
	return "auto"
}
