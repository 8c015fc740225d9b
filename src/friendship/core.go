package friendship

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Relationship stages in progression order. A profile only ever moves
// forward through these.
const (
	StageStranger     = "stranger"
	StageAcquaintance = "acquaintance"
	StageFriend       = "friend"
	StageCloseFriend  = "close_friend"
)

var stageRank = map[string]int{
	StageStranger:     0,
	StageAcquaintance: 1,
	StageFriend:       2,
	StageCloseFriend:  3,
}

const (
	MaxAffection   = 100
	MaxStressLevel = 10

	stressSupportThreshold    = 6
	intensitySupportThreshold = 0.75
)

type EmotionalState struct {
	PrimaryEmotion string   `json:"primary_emotion"`
	Intensity      float64  `json:"intensity"`
	MoodIndicators []string `json:"mood_indicators"`
	StressLevel    int      `json:"stress_level"`
	SupportNeeded  bool     `json:"support_needed"`
}

type TopicFacts struct {
	Mentioned  bool      `json:"mentioned"`
	Keywords   []string  `json:"keywords"`
	Concern    bool      `json:"concern"`
	LastRaised time.Time `json:"last_raised"`
}

type Profile struct {
	UserID       string     `json:"user_id"`
	Interests    []string   `json:"interests"`
	Career       TopicFacts `json:"career"`
	Family       TopicFacts `json:"family"`
	Financial    TopicFacts `json:"financial"`
	Health       TopicFacts `json:"health"`
	MessageCount int64      `json:"message_count"`
	Affection    int        `json:"affection"`
	Stage        string     `json:"stage"`
	CurrentMood  string     `json:"current_mood"`
	FirstContact time.Time  `json:"first_contact"`
	LastContact  time.Time  `json:"last_contact"`
}

type Reply struct {
	Text    string         `json:"text"`
	Emotion string         `json:"emotion"`
	Stage   string         `json:"stage"`
	State   EmotionalState `json:"state"`
}

// Core holds the per-user relationship profiles. Handlers call into it
// from request goroutines, so all map access goes through the mutex.
type Core struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewCore() *Core {
	return &Core{profiles: make(map[string]*Profile)}
}

var negativeEmotions = map[string]bool{
	EmotionStress:     true,
	EmotionSadness:    true,
	EmotionAnger:      true,
	EmotionFear:       true,
	EmotionLoneliness: true,
}

var termEmotion = buildTermIndex()

func buildTermIndex() map[string]string {
	index := make(map[string]string)
	for _, emotion := range emotionPriority {
		for _, term := range emotionLexicon[emotion] {
			index[term] = emotion
		}
	}
	return index
}

func tokenize(text string) []string {
	cleaned := strings.ReplaceAll(strings.ToLower(text), "'", "")
	return strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func neutralState() EmotionalState {
	return EmotionalState{PrimaryEmotion: EmotionNeutral}
}

// Analyze classifies a single message against the emotion lexicon.
// Intensifier words double a term's weight, a negator within the two
// preceding tokens flips positive terms to sadness and discards negated
// negative terms, and exclamation marks or shouted words raise intensity.
func (core *Core) Analyze(text string) EmotionalState {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return neutralState()
	}

	scores := make(map[string]int)
	var indicators []string
	seen := make(map[string]bool)

	for i, token := range tokens {
		emotion, ok := termEmotion[token]
		if !ok {
			continue
		}

		if negatedAt(tokens, i) {
			if positiveEmotions[emotion] {
				scores[EmotionSadness]++
			}
			continue
		}

		weight := 1
		if i > 0 && intensifiers[tokens[i-1]] {
			weight = 2
		}
		scores[emotion] += weight

		if !seen[token] {
			seen[token] = true
			indicators = append(indicators, token)
		}
	}

	primary := EmotionNeutral
	best := 0
	for _, emotion := range emotionPriority {
		if scores[emotion] > best {
			best = scores[emotion]
			primary = emotion
		}
	}
	if primary == EmotionNeutral {
		state := neutralState()
		state.MoodIndicators = indicators
		return state
	}

	boosters := strings.Count(text, "!") + shoutedWords(text)
	intensity := 0.25*float64(best) + 0.15*float64(boosters)
	if intensity > 1.0 {
		intensity = 1.0
	}

	stress := 2 * scores[EmotionStress]
	if negativeEmotions[primary] && intensity >= 0.5 {
		stress += 2
	}
	if stress > MaxStressLevel {
		stress = MaxStressLevel
	}

	state := EmotionalState{
		PrimaryEmotion: primary,
		Intensity:      intensity,
		MoodIndicators: indicators,
		StressLevel:    stress,
	}
	state.SupportNeeded = stress >= stressSupportThreshold ||
		(negativeEmotions[primary] && intensity >= intensitySupportThreshold)

	return state
}

func negatedAt(tokens []string, i int) bool {
	for back := 1; back <= 2; back++ {
		if i-back < 0 {
			break
		}
		if negators[tokens[i-back]] {
			return true
		}
	}
	return false
}

func shoutedWords(text string) int {
	count := 0
	for _, word := range strings.Fields(text) {
		letters := 0
		upper := 0
		for _, r := range word {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters >= 3 && letters == upper {
			count++
		}
	}
	return count
}

// Observe folds a message into the user's profile and returns a copy of
// the updated profile.
func (core *Core) Observe(userID string, text string, state EmotionalState) Profile {
	tokens := tokenize(text)
	now := time.Now().UTC()

	core.mu.Lock()
	defer core.mu.Unlock()

	profile, ok := core.profiles[userID]
	if !ok {
		profile = &Profile{
			UserID:       userID,
			Stage:        StageStranger,
			FirstContact: now,
		}
		core.profiles[userID] = profile
	}

	profile.MessageCount++
	profile.LastContact = now
	profile.CurrentMood = state.PrimaryEmotion

	personal := false
	for _, token := range tokens {
		if containsTerm(interestLexicon, token) && !containsTerm(profile.Interests, token) {
			profile.Interests = append(profile.Interests, token)
		}
	}
	if updateTopic(&profile.Career, careerLexicon, tokens, state, now) {
		personal = true
	}
	if updateTopic(&profile.Family, familyLexicon, tokens, state, now) {
		personal = true
	}
	if updateTopic(&profile.Financial, financialLexicon, tokens, state, now) {
		personal = true
	}
	if updateTopic(&profile.Health, healthLexicon, tokens, state, now) {
		personal = true
	}

	gain := 1
	if personal {
		gain += 2
	}
	if state.PrimaryEmotion == EmotionGratitude {
		gain += 2
	}
	profile.Affection += gain
	if profile.Affection > MaxAffection {
		profile.Affection = MaxAffection
	}

	next := stageFor(profile.MessageCount, profile.Affection)
	if stageRank[next] > stageRank[profile.Stage] {
		profile.Stage = next
	}

	return copyProfile(profile)
}

func updateTopic(topic *TopicFacts, lexicon []string, tokens []string, state EmotionalState, now time.Time) bool {
	raised := false
	for _, token := range tokens {
		if !containsTerm(lexicon, token) {
			continue
		}
		raised = true
		if !containsTerm(topic.Keywords, token) {
			topic.Keywords = append(topic.Keywords, token)
		}
	}
	if !raised {
		return false
	}

	topic.Mentioned = true
	topic.LastRaised = now
	if negativeEmotions[state.PrimaryEmotion] {
		topic.Concern = true
	}
	return true
}

func containsTerm(terms []string, term string) bool {
	for _, candidate := range terms {
		if candidate == term {
			return true
		}
	}
	return false
}

func stageFor(messages int64, affection int) string {
	switch {
	case messages >= 50 && affection >= 60:
		return StageCloseFriend
	case messages >= 20 && affection >= 30:
		return StageFriend
	case messages >= 5 && affection >= 10:
		return StageAcquaintance
	}
	return StageStranger
}

// Respond runs the full pipeline for one message: classify, fold into
// the profile, then select a reply for the emotion and relationship
// stage. Blank messages leave the profile untouched.
func (core *Core) Respond(userID string, text string) (Reply, error) {
	if userID == "" {
		return Reply{}, errors.New("friendship: user id is required")
	}

	if strings.TrimSpace(text) == "" {
		stage := StageStranger
		if snapshot, ok := core.Snapshot(userID); ok {
			stage = snapshot.Stage
		}
		return Reply{
			Text:    emptyMessageReply,
			Emotion: EmotionNeutral,
			Stage:   stage,
			State:   neutralState(),
		}, nil
	}

	state := core.Analyze(text)
	profile := core.Observe(userID, text, state)

	return Reply{
		Text:    selectResponse(profile.Stage, state.PrimaryEmotion, profile.MessageCount),
		Emotion: state.PrimaryEmotion,
		Stage:   profile.Stage,
		State:   state,
	}, nil
}

// Snapshot returns a copy of the stored profile, if one exists.
func (core *Core) Snapshot(userID string) (Profile, bool) {
	core.mu.RLock()
	defer core.mu.RUnlock()

	profile, ok := core.profiles[userID]
	if !ok {
		return Profile{}, false
	}
	return copyProfile(profile), true
}

// Restore seeds the in-memory map from a persisted snapshot. An existing
// profile with more observed messages wins over the snapshot.
func (core *Core) Restore(snapshot Profile) {
	if snapshot.UserID == "" {
		return
	}
	if snapshot.Stage == "" {
		snapshot.Stage = StageStranger
	}

	core.mu.Lock()
	defer core.mu.Unlock()

	existing, ok := core.profiles[snapshot.UserID]
	if ok && existing.MessageCount >= snapshot.MessageCount {
		return
	}
	restored := snapshot
	core.profiles[snapshot.UserID] = &restored
}

func copyProfile(profile *Profile) Profile {
	snapshot := *profile
	snapshot.Interests = append([]string(nil), profile.Interests...)
	snapshot.Career.Keywords = append([]string(nil), profile.Career.Keywords...)
	snapshot.Family.Keywords = append([]string(nil), profile.Family.Keywords...)
	snapshot.Financial.Keywords = append([]string(nil), profile.Financial.Keywords...)
	snapshot.Health.Keywords = append([]string(nil), profile.Health.Keywords...)
	return snapshot
}
