package frontend

import (
	"fmt"
	"strconv"
	"strings"

	hostapi "github.com/user-none/retrohost/api"
)

// classifyVariable maps a core option key to the semantic setting it
// controls. Order matters: keys often contain several of the substrings.
func classifyVariable(key string) (hostapi.Setting, bool) {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "resolution") && !strings.Contains(k, "enhanced"):
		return hostapi.SettingInternalResolution, true
	case strings.Contains(k, "dithering"):
		return hostapi.SettingDithering, true
	case strings.Contains(k, "enhanced"):
		return hostapi.SettingEnhancedResolution, true
	case strings.Contains(k, "interpolation"):
		return hostapi.SettingAudioInterpolation, true
	case strings.Contains(k, "superfx"), strings.Contains(k, "overclock") && !strings.Contains(k, "68k"):
		return hostapi.SettingSuperFXOverclock, true
	case strings.Contains(k, "slowdown"):
		return hostapi.SettingReduceSlowdown, true
	case strings.Contains(k, "region"):
		return hostapi.SettingRegion, true
	case strings.Contains(k, "audio") && strings.Contains(k, "quality"):
		return hostapi.SettingAudioQuality, true
	case strings.Contains(k, "68k"):
		return hostapi.SettingM68KOverclock, true
	default:
		return "", false
	}
}

// TranslateVariable answers a core's GET_VARIABLE for key from the
// settings stored for coreID, converted to the vocabulary cores expect.
func TranslateVariable(store hostapi.ConfigStore, coreID, key string) (string, bool) {
	if store == nil || coreID == "" {
		return "", false
	}
	setting, ok := classifyVariable(key)
	if !ok {
		return "", false
	}
	raw, ok := store.CoreSetting(coreID, setting)
	if !ok || raw == nil {
		return "", false
	}

	var value string
	switch setting {
	case hostapi.SettingInternalResolution:
		value = resolutionScale(settingString(raw))
	case hostapi.SettingDithering, hostapi.SettingEnhancedResolution, hostapi.SettingReduceSlowdown:
		b, ok := settingBool(raw)
		if !ok {
			return "", false
		}
		value = enabledDisabled(b)
	case hostapi.SettingAudioInterpolation, hostapi.SettingAudioQuality:
		value = strings.ToLower(settingString(raw))
	case hostapi.SettingSuperFXOverclock, hostapi.SettingM68KOverclock:
		n, ok := settingInt(raw)
		if !ok {
			return "", false
		}
		value = strconv.Itoa(n)
	case hostapi.SettingRegion:
		value = hostapi.Region(settingString(raw)).Token()
	}

	if value == "" {
		return "", false
	}
	return value, true
}

// resolutionScales are checked in order against the stored choice, so
// labels such as "2x (512x448)" still resolve.
var resolutionScales = []struct{ label, scale string }{
	{"1x", "1"},
	{"2x", "2"},
	{"4x", "4"},
	{"8x", "8"},
}

func resolutionScale(choice string) string {
	choice = strings.ToLower(choice)
	for _, s := range resolutionScales {
		if strings.Contains(choice, s.label) {
			return s.scale
		}
	}
	return "1"
}

func enabledDisabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func settingString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}

func settingBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "enabled", "on", "1":
			return true, true
		case "false", "disabled", "off", "0":
			return false, true
		}
	}
	return false, false
}

func settingInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(t), "%"), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}
