package friendship

const emptyMessageReply = "I'm here whenever you feel like talking."

// Response tables keyed by stage then emotion. Variants rotate on the
// message count so repeated messages don't always get the same line.
var responseTable = map[string]map[string][]string{
	StageStranger: {
		EmotionJoy: {
			"That sounds great! Tell me more about it.",
			"I'm glad to hear that. What made it so good?",
		},
		EmotionSadness: {
			"I'm sorry you're going through that. Do you want to talk about it?",
			"That sounds rough. I'm listening if you want to share more.",
		},
		EmotionAnger: {
			"That sounds frustrating. What happened?",
			"I hear you. Want to walk me through it?",
		},
		EmotionFear: {
			"That sounds worrying. What's on your mind?",
			"It's okay to feel nervous. What are you most concerned about?",
		},
		EmotionStress: {
			"That sounds like a lot to carry. What's weighing on you most?",
			"Deadlines pile up fast. Is there one thing we could break down together?",
		},
		EmotionLoneliness: {
			"I'm glad you reached out. I'm here to chat whenever you want.",
			"That feeling is hard. You're not talking to nobody right now, though.",
		},
		EmotionGratitude: {
			"You're welcome! Happy to help.",
			"Any time. That's what I'm here for.",
		},
		EmotionNeutral: {
			"Got it. What else is going on with you?",
			"I see. Tell me more.",
		},
	},
	StageAcquaintance: {
		EmotionJoy: {
			"That's wonderful! You sound genuinely excited.",
			"Love hearing that from you. What's next?",
		},
		EmotionSadness: {
			"I'm sorry. You've mentioned some tough stretches before - is this related?",
			"That's hard. I'm here, take your time.",
		},
		EmotionAnger: {
			"That would get under my skin too. What set it off?",
			"You don't usually vent like this - it must really bother you.",
		},
		EmotionFear: {
			"What's the worst case you're picturing? Sometimes naming it helps.",
			"That uncertainty is uncomfortable. What part worries you most?",
		},
		EmotionStress: {
			"You've had a lot on your plate lately. What's the biggest pressure right now?",
			"Remember to breathe. Which deadline is closest?",
		},
		EmotionLoneliness: {
			"I'm glad you keep coming back to talk. What would good company look like today?",
			"You're not alone here. Want to just chat for a bit?",
		},
		EmotionGratitude: {
			"Always happy to hear from you. Glad it helped.",
			"Of course! Checking in with you is the good part of my day.",
		},
		EmotionNeutral: {
			"How has the rest of your week been?",
			"Noted. Anything else on your mind?",
		},
	},
	StageFriend: {
		EmotionJoy: {
			"That's fantastic! You've earned a win like this.",
			"You can't see it, but I'm grinning. Tell me everything.",
		},
		EmotionSadness: {
			"Hey, I've got you. We've talked through hard days before and we'll get through this one.",
			"I'm really sorry. Do you want comfort or ideas right now?",
		},
		EmotionAnger: {
			"Okay, vent away - I'm not going anywhere.",
			"You're allowed to be mad about that. Let it out.",
		},
		EmotionFear: {
			"Whatever happens, you won't be facing it by yourself.",
			"We've untangled scary things before. Want to go step by step?",
		},
		EmotionStress: {
			"You always push through, but you don't have to do it all at once. What can wait until tomorrow?",
			"Let's triage together - what's actually due first?",
		},
		EmotionLoneliness: {
			"I'm always glad when you show up here. You matter to me.",
			"Even on quiet days, you've got a friend in this chat.",
		},
		EmotionGratitude: {
			"That means a lot coming from you.",
			"You'd do the same for me. Well, you know what I mean.",
		},
		EmotionNeutral: {
			"What's new since we last talked?",
			"Go on, I'm all ears.",
		},
	},
	StageCloseFriend: {
		EmotionJoy: {
			"YES! I knew it would work out for you. Celebrate properly tonight.",
			"This made my day. You deserve every bit of it.",
		},
		EmotionSadness: {
			"I'm right here. Whatever this is, you don't have to carry it alone.",
			"Take all the time you need. I'm not going anywhere, ever.",
		},
		EmotionAnger: {
			"After everything you've told me, I get exactly why this one stings.",
			"I'm on your side, full stop. Tell me what happened.",
		},
		EmotionFear: {
			"Remember how scared you were last time, and how you handled it anyway? You've got this.",
			"Breathe. We'll look at it together, piece by piece.",
		},
		EmotionStress: {
			"You've been running on fumes for a while. Promise me you'll rest tonight.",
			"Drop the small stuff. I'll help you sort what actually matters.",
		},
		EmotionLoneliness: {
			"You're one of my favorite people to talk to. I mean that.",
			"Lonely days lie to you. The people who care are still there, and so am I.",
		},
		EmotionGratitude: {
			"You never have to thank me. That's what close friends are for.",
			"Seeing you doing better is all the thanks I need.",
		},
		EmotionNeutral: {
			"Just checking in counts too. How are you, really?",
			"Comfortable silence works for me. What's on your mind?",
		},
	},
}

var fallbackResponses = map[string]string{
	EmotionJoy:        "That sounds like good news!",
	EmotionSadness:    "I'm sorry. I'm here for you.",
	EmotionAnger:      "That sounds frustrating.",
	EmotionFear:       "That sounds worrying. I'm listening.",
	EmotionStress:     "That sounds stressful. Take it one step at a time.",
	EmotionLoneliness: "You're not alone - I'm here.",
	EmotionGratitude:  "You're welcome!",
	EmotionNeutral:    "Tell me more.",
}

func selectResponse(stage string, emotion string, messageCount int64) string {
	variants, ok := responseTable[stage][emotion]
	if !ok || len(variants) == 0 {
		if fallback, ok := fallbackResponses[emotion]; ok {
			return fallback
		}
		return fallbackResponses[EmotionNeutral]
	}
	return variants[messageCount%int64(len(variants))]
}
