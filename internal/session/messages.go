package session

import "github.com/fol2/mathsquiz/internal/problemgen"

var correctMessages = []string{
	"Awesome! You nailed it! ✨",
	"You're a math whiz! 🧠💡",
	"Great job! Keep shining! ⭐",
	"Fantastic! That's the way! 🚀",
	"Super! You're on a roll! 🎉",
}

var incorrectMessages = []string{
	"Not quite, but don't give up! 💪",
	"Almost there! Keep trying! 🎯",
	"Math is a journey! Let's try the next one. 🚶",
	"Oops! Check your calculation. Every mistake is a lesson! 📚",
	"That's a tricky one! You'll get it next time! 👍",
}

var levelUpMessages = []string{
	"LEVEL UP! You're unstoppable! 🏆",
	"Woohoo! New challenge unlocked! 🔓",
	"Amazing! You're getting smarter! 🌟",
	"Incredible! Prepare for tougher questions! 🔥",
	"You're a Math Genius in the making! 🌠",
}

const (
	timeoutMessage  = "Time's up! Let's try the next one. ⌛"
	degradedMessage = "Let's try to get a new question."
)

func pick(r problemgen.Intn, pool []string) string {
	return pool[r.IntN(len(pool))]
}
