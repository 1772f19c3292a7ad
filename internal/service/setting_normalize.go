package service

import (
	"strings"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
)

// normalizeSettingValueByKey 按设置键执行归一化，避免非法值入库。
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	switch key {
	case constants.SettingKeyReferralConfig:
		return normalizeReferralSettingMap(value)
	case constants.SettingKeySiteConfig:
		return normalizeSiteSetting(value)
	default:
		return models.JSON(value)
	}
}

// normalizeSiteSetting 归一化站点配置结构。
func normalizeSiteSetting(value map[string]interface{}) models.JSON {
	normalized := make(models.JSON, len(value)+2)
	for key, raw := range value {
		normalized[key] = raw
	}

	normalized["brand"] = normalizeSiteBrand(value["brand"])
	normalized["contact"] = normalizeSiteContact(value["contact"])
	return normalized
}

func normalizeSiteBrand(raw interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"site_name": "",
	}
	brandMap, ok := raw.(map[string]interface{})
	if !ok {
		return result
	}
	result["site_name"] = normalizeSettingText(brandMap["site_name"])
	return result
}

func normalizeSiteContact(raw interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"support_email": "",
		"telegram":      "",
		"whatsapp":      "",
	}
	contactMap, ok := raw.(map[string]interface{})
	if !ok {
		return result
	}
	result["support_email"] = normalizeSettingText(contactMap["support_email"])
	result["telegram"] = normalizeSettingText(contactMap["telegram"])
	result["whatsapp"] = normalizeSettingText(contactMap["whatsapp"])
	return result
}

func normalizeSettingText(raw interface{}) string {
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func normalizeSettingTextWithRuneLimit(raw interface{}, maxRuneCount int) string {
	value := normalizeSettingText(raw)
	if maxRuneCount <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxRuneCount {
		return value
	}
	return strings.TrimSpace(string(runes[:maxRuneCount]))
}

func parseSettingBool(raw interface{}) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(v))
		return trimmed == "1" || trimmed == "true" || trimmed == "yes" || trimmed == "on"
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}
