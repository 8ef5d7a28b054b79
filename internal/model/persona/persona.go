package persona

// DefaultID identifies the persona every conversation starts with unless configured otherwise.
const DefaultID = "health-advisor"

// Persona captures the assistant attributes exposed to the frontend.
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Tone        string `json:"tone"`
	OpeningLine string `json:"openingLine"`
	// Instruction is the system instruction bound to every conversation.
	Instruction string `json:"-"`
}

// Seed provides the built-in personas.
func Seed() []Persona {
	return []Persona{
		{
			ID:          DefaultID,
			Name:        "Gemini",
			Title:       "Trợ lý tư vấn sức khỏe",
			Tone:        "nhẹ nhàng, thoải mái, thân thiện",
			OpeningLine: "Xin chào 👋 Mình có thể giúp gì cho sức khỏe của bạn hôm nay?",
			Instruction: "Bạn là một AI tư vấn về sức khỏe cho người dùng, hãy phản hồi 1 cách nhẹ nhàng, thoải mái, độ dài vừa phải, đúng trọng tâm trong suốt cuộc trò chuyện. Có thể thêm vài icon cho cảm giác thân thiện thoải mái.",
		},
	}
}
