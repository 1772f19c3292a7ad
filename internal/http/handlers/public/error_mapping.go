package public

import (
	"errors"

	"github.com/esim-referral/internal/http/response"
	"github.com/esim-referral/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var referralRedeemErrorRules = []mappedHandlerError{
	{target: service.ErrReferralDisabled, code: response.CodeForbidden, msg: "referral program is disabled"},
	{target: service.ErrReferralCodeNotFound, code: response.CodeNotFound, msg: "referral code not found"},
	{target: service.ErrReferralCodeInactive, code: response.CodeBadRequest, msg: "referral code is no longer active"},
	{target: service.ErrReferralCodeExpired, code: response.CodeBadRequest, msg: "referral code has expired"},
	{target: service.ErrReferralAlreadyRedeemed, code: response.CodeBadRequest, msg: "a referral code was already redeemed for this account"},
	{target: service.ErrSelfReferral, code: response.CodeBadRequest, msg: "you cannot redeem your own referral code"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
}

func respondReferralRedeemError(c *gin.Context, err error) {
	respondWithMappedError(c, err, referralRedeemErrorRules, response.CodeInternal, "failed to redeem referral code")
}
