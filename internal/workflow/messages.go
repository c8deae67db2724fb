package workflow

// User-facing notification texts.
const (
	MsgLoading                 = "⏳ 스크립트 로딩 중..."
	MsgSummarizing             = "⏳ 스크립트 요약 중..."
	MsgDone                    = "✅ 스크립트 요약 완료!"
	MsgTranscriptButtonMissing = "⚠️ 스크립트 표시 버튼을 찾을 수 없습니다."
	MsgTranscriptMissing       = "⚠️ 스크립트를 찾을 수 없습니다. 동영상 페이지인지 확인해주세요."
	MsgTranscriptEmpty         = "⚠️ 스크립트가 비어 있습니다."
	MsgKeyRequired             = "❌ API 키가 필요합니다. 확장 프로그램을 다시 실행해 주세요."
	MsgKeyTimeout              = "❌ API 키 입력 시간이 초과되었습니다. 확장 프로그램을 다시 실행해 주세요."
	msgFailedFormat            = "❌ 요약 실패: %v"
)
