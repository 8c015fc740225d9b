package friendship

// Emotion labels recognized by Analyze. Order doubles as the tie-break
// priority when two emotions score the same.
const (
	EmotionStress     = "stress"
	EmotionSadness    = "sadness"
	EmotionAnger      = "anger"
	EmotionFear       = "fear"
	EmotionLoneliness = "loneliness"
	EmotionJoy        = "joy"
	EmotionGratitude  = "gratitude"
	EmotionNeutral    = "neutral"
)

var emotionPriority = []string{
	EmotionStress,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionLoneliness,
	EmotionJoy,
	EmotionGratitude,
}

var emotionLexicon = map[string][]string{
	EmotionJoy: {
		"happy", "glad", "great", "wonderful", "amazing", "excited",
		"awesome", "fantastic", "love", "loved", "fun", "yay", "proud",
		"delighted", "thrilled",
	},
	EmotionSadness: {
		"sad", "unhappy", "down", "depressed", "miserable", "crying",
		"cried", "heartbroken", "hopeless", "lost", "grief", "hurt",
		"disappointed",
	},
	EmotionAnger: {
		"angry", "mad", "furious", "annoyed", "frustrated", "hate",
		"irritated", "unfair", "rage", "fed",
	},
	EmotionFear: {
		"afraid", "scared", "terrified", "worried", "anxious", "nervous",
		"panic", "dread", "frightened",
	},
	EmotionStress: {
		"stressed", "stress", "stressful", "overwhelmed", "pressure", "deadline",
		"exhausted", "burnout", "burned", "swamped", "overloaded",
		"overworked",
	},
	EmotionLoneliness: {
		"lonely", "alone", "isolated", "ignored", "abandoned", "nobody",
		"friendless",
	},
	EmotionGratitude: {
		"thanks", "thank", "grateful", "appreciate", "appreciated",
		"thankful",
	},
}

// positiveEmotions are flipped to sadness when negated ("not happy").
var positiveEmotions = map[string]bool{
	EmotionJoy:       true,
	EmotionGratitude: true,
}

var intensifiers = map[string]bool{
	"very":       true,
	"really":     true,
	"so":         true,
	"extremely":  true,
	"totally":    true,
	"completely": true,
	"absolutely": true,
	"incredibly": true,
}

var negators = map[string]bool{
	"not":     true,
	"never":   true,
	"no":      true,
	"isnt":    true,
	"dont":    true,
	"cant":    true,
	"wont":    true,
	"nothing": true,
}

// Profile fact lexicons. A match marks the topic as raised in the
// current message.
var interestLexicon = []string{
	"music", "movies", "movie", "gaming", "games", "reading", "books",
	"cooking", "travel", "hiking", "football", "basketball", "art",
	"photography", "running", "gym", "coding", "chess", "gardening",
	"fishing",
}

var careerLexicon = []string{
	"work", "job", "boss", "office", "career", "promotion", "interview",
	"coworker", "colleague", "meeting", "project", "fired", "hired",
	"salary", "shift",
}

var familyLexicon = []string{
	"family", "mom", "dad", "mother", "father", "sister", "brother",
	"wife", "husband", "kids", "son", "daughter", "parents", "grandma",
	"grandpa",
}

var financialLexicon = []string{
	"money", "rent", "debt", "bills", "loan", "savings", "broke",
	"budget", "paycheck", "mortgage", "expenses",
}

var healthLexicon = []string{
	"sick", "doctor", "hospital", "sleep", "insomnia", "headache",
	"pain", "therapy", "medication", "diagnosis", "injury", "flu",
	"tired",
}
