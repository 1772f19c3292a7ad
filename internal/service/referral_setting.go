package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/esim-referral/internal/config"
	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
)

const (
	referralCommissionRateMin    = 0
	referralCommissionRateMax    = 100
	referralMinWithdrawAmountMin = 0
	referralCodeLifetimeMaxMonth = 120
	referralCodeLengthMin        = 4
	referralCodeLengthMax        = 16
)

// ReferralSetting 推荐配置（单一存储位置，类型化读写）
type ReferralSetting struct {
	Enabled            bool     `json:"enabled"`
	CommissionRate     *float64 `json:"commission_rate"` // 佣金比例（百分比）。nil 表示未配置，与 0 含义不同
	MinWithdrawAmount  float64  `json:"min_withdraw_amount"`
	CodeLifetimeMonths int      `json:"code_lifetime_months"`
	CodeLength         int      `json:"code_length"`
}

// ReferralDefaultSetting 默认推荐配置
func ReferralDefaultSetting() ReferralSetting {
	return NormalizeReferralSetting(ReferralSetting{
		Enabled:            true,
		CommissionRate:     nil,
		MinWithdrawAmount:  50,
		CodeLifetimeMonths: 2,
		CodeLength:         8,
	})
}

// NormalizeReferralSetting 归一化推荐配置
func NormalizeReferralSetting(setting ReferralSetting) ReferralSetting {
	if setting.CommissionRate != nil {
		rate := roundReferralDecimal(*setting.CommissionRate)
		if rate < referralCommissionRateMin {
			rate = referralCommissionRateMin
		}
		if rate > referralCommissionRateMax {
			rate = referralCommissionRateMax
		}
		setting.CommissionRate = &rate
	}

	setting.MinWithdrawAmount = roundReferralDecimal(setting.MinWithdrawAmount)
	if setting.MinWithdrawAmount < referralMinWithdrawAmountMin {
		setting.MinWithdrawAmount = referralMinWithdrawAmountMin
	}

	if setting.CodeLifetimeMonths < 0 {
		setting.CodeLifetimeMonths = 0
	}
	if setting.CodeLifetimeMonths > referralCodeLifetimeMaxMonth {
		setting.CodeLifetimeMonths = referralCodeLifetimeMaxMonth
	}

	if setting.CodeLength < referralCodeLengthMin {
		setting.CodeLength = referralCodeLengthMin
	}
	if setting.CodeLength > referralCodeLengthMax {
		setting.CodeLength = referralCodeLengthMax
	}
	return setting
}

// ValidateReferralSetting 校验推荐配置
func ValidateReferralSetting(setting ReferralSetting) error {
	if setting.CommissionRate != nil {
		if *setting.CommissionRate < referralCommissionRateMin || *setting.CommissionRate > referralCommissionRateMax {
			return fmt.Errorf("%w: commission rate must be between 0 and 100", ErrReferralConfigInvalid)
		}
	}
	if setting.MinWithdrawAmount < referralMinWithdrawAmountMin {
		return fmt.Errorf("%w: minimum withdraw amount cannot be negative", ErrReferralConfigInvalid)
	}
	if setting.CodeLength < referralCodeLengthMin || setting.CodeLength > referralCodeLengthMax {
		return fmt.Errorf("%w: referral code length must be between 4 and 16", ErrReferralConfigInvalid)
	}
	return nil
}

// ReferralSettingToMap 将推荐配置转换为 settings 存储结构
func ReferralSettingToMap(setting ReferralSetting) map[string]interface{} {
	normalized := NormalizeReferralSetting(setting)
	result := map[string]interface{}{
		"enabled":              normalized.Enabled,
		"min_withdraw_amount":  normalized.MinWithdrawAmount,
		"code_lifetime_months": normalized.CodeLifetimeMonths,
		"code_length":          normalized.CodeLength,
	}
	if normalized.CommissionRate != nil {
		result["commission_rate"] = *normalized.CommissionRate
	} else {
		result["commission_rate"] = nil
	}
	return result
}

func referralSettingFromJSON(raw models.JSON, fallback ReferralSetting) ReferralSetting {
	result := fallback

	if enabledRaw, ok := raw["enabled"]; ok {
		result.Enabled = parseSettingBool(enabledRaw)
	}
	if rateRaw, ok := raw["commission_rate"]; ok {
		if rateRaw == nil {
			result.CommissionRate = nil
		} else if parsed, err := parseSettingFloat(rateRaw); err == nil {
			result.CommissionRate = &parsed
		}
	}
	if minWithdrawRaw, ok := raw["min_withdraw_amount"]; ok {
		if parsed, err := parseSettingFloat(minWithdrawRaw); err == nil {
			result.MinWithdrawAmount = parsed
		}
	}
	if lifetimeRaw, ok := raw["code_lifetime_months"]; ok {
		if parsed, err := parseSettingInt(lifetimeRaw); err == nil {
			result.CodeLifetimeMonths = parsed
		}
	}
	if lengthRaw, ok := raw["code_length"]; ok {
		if parsed, err := parseSettingInt(lengthRaw); err == nil {
			result.CodeLength = parsed
		}
	}

	return NormalizeReferralSetting(result)
}

func normalizeReferralSettingMap(value map[string]interface{}) models.JSON {
	setting := referralSettingFromJSON(models.JSON(value), ReferralDefaultSetting())
	return models.JSON(ReferralSettingToMap(setting))
}

// GetReferralSetting 获取推荐设置（settings 为空时回退默认值）
func (s *SettingService) GetReferralSetting() (ReferralSetting, error) {
	fallback := ReferralDefaultSetting()
	if s == nil {
		return fallback, nil
	}

	value, err := s.GetByKey(constants.SettingKeyReferralConfig)
	if err != nil {
		return fallback, err
	}
	if value == nil {
		return fallback, nil
	}
	return referralSettingFromJSON(value, fallback), nil
}

// SeedReferralSetting 首次启动时将配置文件里的推荐默认值写入设置表。
// 设置表已有记录时不做任何修改，之后以设置表为准。
func (s *SettingService) SeedReferralSetting(cfg config.ReferralConfig) error {
	existing, err := s.GetByKey(constants.SettingKeyReferralConfig)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	seed := ReferralDefaultSetting()
	if rate, err := parseSettingFloat(cfg.CommissionRatePercent); err == nil {
		seed.CommissionRate = &rate
	}
	if minWithdraw, err := parseSettingFloat(cfg.MinWithdrawAmount); err == nil {
		seed.MinWithdrawAmount = minWithdraw
	}
	if cfg.CodeLifetimeMonths > 0 {
		seed.CodeLifetimeMonths = cfg.CodeLifetimeMonths
	}
	if cfg.CodeLength > 0 {
		seed.CodeLength = cfg.CodeLength
	}

	normalized := NormalizeReferralSetting(seed)
	if err := ValidateReferralSetting(normalized); err != nil {
		return err
	}
	_, err = s.Update(constants.SettingKeyReferralConfig, ReferralSettingToMap(normalized))
	return err
}

// UpdateReferralSetting 更新推荐设置
func (s *SettingService) UpdateReferralSetting(setting ReferralSetting) (ReferralSetting, error) {
	normalized := NormalizeReferralSetting(setting)
	if err := ValidateReferralSetting(normalized); err != nil {
		return ReferralDefaultSetting(), err
	}
	if _, err := s.Update(constants.SettingKeyReferralConfig, ReferralSettingToMap(normalized)); err != nil {
		return ReferralDefaultSetting(), err
	}
	return normalized, nil
}

func parseSettingFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("empty string")
		}
		return strconv.ParseFloat(trimmed, 64)
	default:
		return 0, fmt.Errorf("unsupported value type")
	}
}

func roundReferralDecimal(value float64) float64 {
	return math.Round(value*100) / 100
}
