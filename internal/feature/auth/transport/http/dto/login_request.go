package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式のバリデーションを含みます。
type LoginReq struct {
	Email    string `json:"email" binding:"notblank,email" label:"Email"`
	Password string `json:"password" binding:"notblank" label:"Password"`
}
