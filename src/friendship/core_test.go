package friendship

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeClassifiesEmotions(t *testing.T) {
	core := NewCore()

	tests := []struct {
		name    string
		message string
		emotion string
	}{
		{"joy", "I am happy about the results", EmotionJoy},
		{"sadness", "I feel sad and heartbroken today", EmotionSadness},
		{"anger", "I am furious about what my boss said", EmotionAnger},
		{"fear", "I am scared and anxious about tomorrow", EmotionFear},
		{"stress", "The deadline pressure has me overwhelmed", EmotionStress},
		{"loneliness", "I feel so alone and isolated", EmotionLoneliness},
		{"gratitude", "Thanks for listening, I appreciate it", EmotionGratitude},
		{"neutral", "The weather was ordinary this afternoon", EmotionNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := core.Analyze(tt.message)
			assert.Equal(t, tt.emotion, state.PrimaryEmotion)
		})
	}
}

func TestAnalyzeIntensifierRaisesIntensity(t *testing.T) {
	core := NewCore()

	plain := core.Analyze("I am happy")
	boosted := core.Analyze("I am so happy")

	assert.Equal(t, EmotionJoy, plain.PrimaryEmotion)
	assert.Equal(t, EmotionJoy, boosted.PrimaryEmotion)
	assert.Greater(t, boosted.Intensity, plain.Intensity)
}

func TestAnalyzeNegationFlipsPositive(t *testing.T) {
	core := NewCore()

	state := core.Analyze("I am not happy about this")

	assert.Equal(t, EmotionSadness, state.PrimaryEmotion)
}

func TestAnalyzeNegatedNegativeDiscarded(t *testing.T) {
	core := NewCore()

	state := core.Analyze("I am not angry anymore")

	assert.Equal(t, EmotionNeutral, state.PrimaryEmotion)
}

func TestAnalyzeExclamationBoosts(t *testing.T) {
	core := NewCore()

	calm := core.Analyze("I am happy")
	loud := core.Analyze("I am happy!!!")

	assert.Greater(t, loud.Intensity, calm.Intensity)
}

func TestAnalyzeStressAndSupport(t *testing.T) {
	core := NewCore()

	state := core.Analyze("The deadline pressure has me overwhelmed and exhausted")

	assert.Equal(t, EmotionStress, state.PrimaryEmotion)
	assert.GreaterOrEqual(t, state.StressLevel, stressSupportThreshold)
	assert.True(t, state.SupportNeeded)
}

func TestAnalyzeBoundsClamped(t *testing.T) {
	core := NewCore()

	state := core.Analyze("stressed overwhelmed pressure deadline exhausted burnout swamped overloaded!!!!!!")

	assert.LessOrEqual(t, state.Intensity, 1.0)
	assert.LessOrEqual(t, state.StressLevel, MaxStressLevel)
	assert.Equal(t, MaxStressLevel, state.StressLevel)
}

func TestAnalyzeEmptyMessageNeutral(t *testing.T) {
	core := NewCore()

	state := core.Analyze("   ")

	assert.Equal(t, EmotionNeutral, state.PrimaryEmotion)
	assert.Zero(t, state.Intensity)
	assert.Zero(t, state.StressLevel)
	assert.False(t, state.SupportNeeded)
}

func TestObserveRecordsTopicsAndInterests(t *testing.T) {
	core := NewCore()

	state := core.Analyze("Work has been stressful but hiking with my sister helps")
	profile := core.Observe("user-1", "Work has been stressful but hiking with my sister helps", state)

	assert.True(t, profile.Career.Mentioned)
	assert.True(t, profile.Family.Mentioned)
	assert.Contains(t, profile.Interests, "hiking")
	assert.Contains(t, profile.Career.Keywords, "work")
	assert.Contains(t, profile.Family.Keywords, "sister")
	assert.True(t, profile.Career.Concern, "topic raised with negative emotion should be flagged")
}

func TestObserveInterestsDeduplicated(t *testing.T) {
	core := NewCore()

	message := "hiking hiking and more hiking"
	state := core.Analyze(message)
	core.Observe("user-1", message, state)
	profile := core.Observe("user-1", message, state)

	count := 0
	for _, interest := range profile.Interests {
		if interest == "hiking" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRespondUnknownUserStartsFresh(t *testing.T) {
	core := NewCore()

	reply, err := core.Respond("new-user", "hello there")
	require.NoError(t, err)

	assert.Equal(t, StageStranger, reply.Stage)
	profile, ok := core.Snapshot("new-user")
	require.True(t, ok)
	assert.EqualValues(t, 1, profile.MessageCount)
}

func TestRespondRequiresUserID(t *testing.T) {
	core := NewCore()

	_, err := core.Respond("", "hello")

	require.Error(t, err)
}

func TestRespondBlankMessageDoesNotMutate(t *testing.T) {
	core := NewCore()

	reply, err := core.Respond("user-1", "   ")
	require.NoError(t, err)

	assert.Equal(t, EmotionNeutral, reply.Emotion)
	assert.Equal(t, emptyMessageReply, reply.Text)
	_, ok := core.Snapshot("user-1")
	assert.False(t, ok, "blank message should not create a profile")
}

func TestStageProgression(t *testing.T) {
	core := NewCore()

	message := "thanks for asking about my family"
	for i := 0; i < 4; i++ {
		_, err := core.Respond("user-1", message)
		require.NoError(t, err)
	}
	profile, _ := core.Snapshot("user-1")
	assert.Equal(t, StageStranger, profile.Stage)

	_, err := core.Respond("user-1", message)
	require.NoError(t, err)
	profile, _ = core.Snapshot("user-1")
	assert.Equal(t, StageAcquaintance, profile.Stage)

	for i := 0; i < 15; i++ {
		core.Respond("user-1", message)
	}
	profile, _ = core.Snapshot("user-1")
	assert.Equal(t, StageFriend, profile.Stage)

	for i := 0; i < 30; i++ {
		core.Respond("user-1", message)
	}
	profile, _ = core.Snapshot("user-1")
	assert.Equal(t, StageCloseFriend, profile.Stage)
}

func TestAffectionClamped(t *testing.T) {
	core := NewCore()

	for i := 0; i < 60; i++ {
		core.Respond("user-1", "thanks for asking about my family")
	}

	profile, _ := core.Snapshot("user-1")
	assert.Equal(t, MaxAffection, profile.Affection)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	core := NewCore()
	core.Respond("user-1", "work is stressful but I love hiking")
	snapshot, ok := core.Snapshot("user-1")
	require.True(t, ok)

	restored := NewCore()
	restored.Restore(snapshot)

	got, ok := restored.Snapshot("user-1")
	require.True(t, ok)
	assert.Equal(t, snapshot, got)
}

func TestBlankOnlyConversationPersistsNothing(t *testing.T) {
	core := NewCore()

	_, err := core.Respond("user-1", "   ")
	require.NoError(t, err)

	snapshot, ok := core.Snapshot("user-1")
	require.False(t, ok, "blank message should leave no snapshot to persist")

	// The zero snapshot must not survive a marshal/restore cycle either;
	// it carries no user id and would only displace real stored facts.
	facts, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded Profile
	require.NoError(t, json.Unmarshal(facts, &decoded))

	restored := NewCore()
	restored.Restore(decoded)
	_, ok = restored.Snapshot("")
	assert.False(t, ok)
	_, ok = restored.Snapshot("user-1")
	assert.False(t, ok)
}

func TestRespondAfterRestoreContinuesRelationship(t *testing.T) {
	core := NewCore()
	core.Restore(Profile{UserID: "user-1", MessageCount: 30, Affection: 45, Stage: StageFriend})

	reply, err := core.Respond("user-1", "hello again")
	require.NoError(t, err)

	assert.Equal(t, StageFriend, reply.Stage)
	profile, ok := core.Snapshot("user-1")
	require.True(t, ok)
	assert.EqualValues(t, 31, profile.MessageCount)
	assert.Equal(t, StageFriend, profile.Stage)
}

func TestRestoreDoesNotOverwriteNewerProfile(t *testing.T) {
	core := NewCore()
	for i := 0; i < 10; i++ {
		core.Respond("user-1", "hello again")
	}
	stale := Profile{UserID: "user-1", MessageCount: 2, Stage: StageStranger}

	core.Restore(stale)

	profile, _ := core.Snapshot("user-1")
	assert.EqualValues(t, 10, profile.MessageCount)
}

func TestSnapshotIsACopy(t *testing.T) {
	core := NewCore()
	core.Respond("user-1", "I love hiking")

	snapshot, _ := core.Snapshot("user-1")
	snapshot.Interests = append(snapshot.Interests, "tampered")

	fresh, _ := core.Snapshot("user-1")
	assert.NotContains(t, fresh.Interests, "tampered")
}

func TestRespondConcurrent(t *testing.T) {
	core := NewCore()

	var wg sync.WaitGroup
	workers := 20
	perWorker := 50
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := core.Respond("shared-user", fmt.Sprintf("message %d from worker %d", i, w))
				if err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	profile, ok := core.Snapshot("shared-user")
	require.True(t, ok)
	assert.EqualValues(t, workers*perWorker, profile.MessageCount)
}

func TestSelectResponseRotatesAndFallsBack(t *testing.T) {
	first := selectResponse(StageFriend, EmotionJoy, 0)
	second := selectResponse(StageFriend, EmotionJoy, 1)
	third := selectResponse(StageFriend, EmotionJoy, 2)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first, third)

	fallback := selectResponse("unknown-stage", EmotionJoy, 0)
	assert.Equal(t, fallbackResponses[EmotionJoy], fallback)

	generic := selectResponse("unknown-stage", "unknown-emotion", 0)
	assert.Equal(t, fallbackResponses[EmotionNeutral], generic)
}
