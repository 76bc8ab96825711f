package payment

// CodeUnknownError is the fail-route sentinel used when the provider
// redirects without an error code.
const CodeUnknownError = "UNKNOWN_ERROR"

// DefaultFailMessage is shown when the provider supplies no message.
const DefaultFailMessage = "알 수 없는 오류가 발생했습니다."

// failDescriptions maps the provider's redirect error codes to
// shopper-facing descriptions.
var failDescriptions = map[string]string{
	"PAY_PROCESS_CANCELED":           "사용자가 결제를 취소하였습니다.",
	"PAY_PROCESS_ABORTED":            "결제 진행 중 오류가 발생하여 결제가 중단되었습니다.",
	"CARD_COMPANY_ERROR":             "카드사에서 승인을 거절하였습니다. 다른 카드를 사용해 보세요.",
	"INVALID_CARD_COMPANY":           "유효하지 않은 카드 정보입니다.",
	"NOT_SUPPORTED_INSTALLMENT":      "지원하지 않는 할부 개월 수입니다.",
	"EXCEED_MAX_DAILY_PAYMENT_COUNT": "일일 결제 한도를 초과하였습니다.",
	"NOT_AVAILABLE_BANK":             "해당 은행은 현재 서비스를 이용할 수 없습니다.",
}

// DescribeFailCode resolves a redirect error code to its description,
// falling back to a generic retry message for unrecognized codes.
func DescribeFailCode(code string) string {
	if desc, ok := failDescriptions[code]; ok {
		return desc
	}
	return "결제 처리 중 문제가 발생했습니다. 다시 시도해 주세요."
}
