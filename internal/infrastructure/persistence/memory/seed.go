package memory

import (
	"github.com/google/uuid"

	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// seedNamespace keeps seed IDs stable across runs.
var seedNamespace = uuid.MustParse("6f1d7a3e-4c52-4b7e-9a3b-2f0d8c1e5a90")

// SeedID returns the deterministic ID of a seed user by handle.
func SeedID(handle string) user.ID {
	return user.ID(uuid.NewSHA1(seedNamespace, []byte(handle)).String())
}

// SeedUsers returns the demo population used for local runs.
func SeedUsers() []user.User {
	return []user.User{
		{
			ID: SeedID("alex"), Name: "Alex Rivera", Location: "Mission District", Vibe: "Chill",
			AvatarURL:      "https://images.aviato.app/avatars/alex.jpg",
			ApprovalRating: 24, ReviewRating: 4.8, ReviewCount: 31,
			AvailabilityMode: "green",
			Interests:        []string{"Hiking", "Coffee", "Photography", "Travel", "Music"},
		},
		{
			ID: SeedID("jordan"), Name: "Jordan Lee", Location: "SoMa", Vibe: "Adventurous",
			AvatarURL:      "https://images.aviato.app/avatars/jordan.jpg",
			ApprovalRating: 18, ReviewRating: 4.6, ReviewCount: 22,
			AvailabilityMode: "yellow", StatusNote: "Back in 20 min",
			Interests: []string{"Climbing", "Hiking", "Cycling", "Travel"},
		},
		{
			ID: SeedID("sam"), Name: "Sam Patel", Location: "Hayes Valley", Vibe: "Creative",
			AvatarURL:      "https://images.aviato.app/avatars/sam.jpg",
			ApprovalRating: 31, ReviewRating: 4.9, ReviewCount: 48,
			AvailabilityMode: "blue",
			Interests:        []string{"Art", "Photography", "Coffee", "Writing", "Movies"},
		},
		{
			ID: SeedID("taylor"), Name: "Taylor Kim", Location: "Castro", Vibe: "Social",
			AvatarURL:      "https://images.aviato.app/avatars/taylor.jpg",
			ApprovalRating: 12, ReviewRating: 4.2, ReviewCount: 15,
			AvailabilityMode: "orange",
			Interests:        []string{"Dancing", "Live Shows", "Music", "Food", "Wine"},
		},
		{
			ID: SeedID("morgan"), Name: "Morgan Chen", Location: "Noe Valley", Vibe: "Focused",
			AvatarURL:      "https://images.aviato.app/avatars/morgan.jpg",
			ApprovalRating: 7, ReviewRating: 4.0, ReviewCount: 9,
			AvailabilityMode: "gray",
			Interests:        []string{"Tech", "Startups", "Reading", "Podcasts"},
		},
		{
			ID: SeedID("casey"), Name: "Casey Brooks", Location: "Sunset", Vibe: "Laid back",
			AvatarURL:      "https://images.aviato.app/avatars/casey.jpg",
			ApprovalRating: -3, ReviewRating: 2.9, ReviewCount: 6,
			AvailabilityMode: "red",
			Interests:        []string{"Surfing", "Gaming", "Pets"},
		},
		{
			ID: SeedID("riley"), Name: "Riley Santos", Location: "Marina", Vibe: "Energetic",
			AvatarURL:      "https://images.aviato.app/avatars/riley.jpg",
			ApprovalRating: 18, ReviewRating: 4.5, ReviewCount: 19,
			AvailabilityMode: "brown",
			Interests:        []string{"Running", "Fitness", "Yoga", "Coffee", "Hiking"},
		},
		{
			ID: SeedID("quinn"), Name: "Quinn Park", Location: "Richmond", Vibe: "Curious",
			AvatarURL:      "https://images.aviato.app/avatars/quinn.jpg",
			ApprovalRating: 0, ReviewRating: 0, ReviewCount: 0,
			Interests: []string{"Languages", "Travel", "Cooking", "Board Games"},
		},
	}
}

// NewSeededUserRepository returns a UserRepository preloaded with SeedUsers.
func NewSeededUserRepository() *UserRepository {
	return NewUserRepository(SeedUsers()...)
}
