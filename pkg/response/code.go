package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 认证错误 100xx
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 会员积分模块错误 300xx
	ErrShopExists        = 30001
	ErrShopNotFound      = 30002
	ErrCustomerNotFound  = 30003
	ErrSecretInvalid     = 30004
	ErrCodeInvalid       = 30005
	ErrCodeUsed          = 30006
	ErrNoRewardAvailable = 30007

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
