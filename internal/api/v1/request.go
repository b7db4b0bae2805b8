package v1

type RequestCallRequest struct {
	StreamerID int64 `json:"streamer_id" validate:"required,min=1"`
}

type AnswerCallRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type EndCallRequest struct {
	DurationSeconds int64 `json:"duration_seconds" validate:"min=0"`
}

type DepositRequest struct {
	Amount string `json:"amount" validate:"required,amount"`
	Method string `json:"method" validate:"required,oneof=pix card boleto"`
}

type TipRequest struct {
	StreamerID int64  `json:"streamer_id" validate:"required,min=1"`
	Amount     string `json:"amount" validate:"required,amount"`
	GiftName   string `json:"gift_name" validate:"omitempty,max=64"`
}

type WithdrawRequest struct {
	Amount string `json:"amount" validate:"required,amount"`
	PixKey string `json:"pix_key" validate:"required,pixkey"`
}

type ReviewWithdrawalRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes" validate:"omitempty,max=500"`
}

type UpdateProfileRequest struct {
	BioName        string  `json:"bio_name" validate:"required,max=128"`
	BioDescription string  `json:"bio_description" validate:"omitempty,max=1000"`
	PhotoURL       *string `json:"photo_url" validate:"omitempty,url"`
	PricePerMinute string  `json:"price_per_minute" validate:"required,amount"`
	IsPublic       bool    `json:"is_public"`
}

type SetOnlineRequest struct {
	Online *bool `json:"online" validate:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=viewer streamer admin banned"`
}

type UpdateCommissionRequest struct {
	Rate *string `json:"rate" validate:"omitempty,amount"`
}

// GatewayWebhookRequest mirrors the notification body the payment gateway
// posts. Only the reference matters; the payment itself is re-fetched.
type GatewayWebhookRequest struct {
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
