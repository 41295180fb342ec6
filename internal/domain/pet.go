package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnimalKind classifies a pet. Stored as lowercase text.
type AnimalKind string

const (
	KindDog    AnimalKind = "dog"
	KindCat    AnimalKind = "cat"
	KindFish   AnimalKind = "fish"
	KindBird   AnimalKind = "bird"
	KindRabbit AnimalKind = "rabbit"
)

// AnimalMood describes a pet's prevailing temperament. Stored as lowercase text.
type AnimalMood string

const (
	MoodHappy   AnimalMood = "happy"
	MoodHungry  AnimalMood = "hungry"
	MoodLazy    AnimalMood = "lazy"
	MoodGrumpy  AnimalMood = "grumpy"
	MoodPlayful AnimalMood = "playful"
)

// AnimalKinds lists every valid AnimalKind, in display order.
func AnimalKinds() []AnimalKind {
	return []AnimalKind{KindDog, KindCat, KindFish, KindBird, KindRabbit}
}

// AnimalMoods lists every valid AnimalMood, in display order.
func AnimalMoods() []AnimalMood {
	return []AnimalMood{MoodHappy, MoodHungry, MoodLazy, MoodGrumpy, MoodPlayful}
}

// Pet represents a single animal owned by one friend.
type Pet struct {
	ID        uuid.UUID  `json:"id"`
	FriendID  uuid.UUID  `json:"friend_id"`
	Name      string     `json:"name"`
	Kind      AnimalKind `json:"kind"`
	Mood      AnimalMood `json:"mood"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
