package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/noah-isme/user-table-api/internal/models"
)

type person struct {
	first string
	last  string
}

var maleNames = []person{
	{"Иван", "Иванов"}, {"Алексей", "Петров"}, {"Дмитрий", "Смирнов"},
	{"Сергей", "Кузнецов"}, {"Павел", "Попов"}, {"Андрей", "Соколов"},
}

var femaleNames = []person{
	{"Мария", "Сидорова"}, {"Елена", "Волкова"}, {"Ольга", "Новикова"},
	{"Анна", "Морозова"}, {"Наталья", "Лебедева"}, {"Татьяна", "Козлова"},
}

var roleWeights = []models.UserRole{
	models.RoleUser, models.RoleUser, models.RoleUser, models.RoleUser,
	models.RoleModerator, models.RoleModerator,
	models.RoleAdmin,
}

// GenerateUsers builds count fake users. The same seed and now always yield the same list.
func GenerateUsers(rng *rand.Rand, count int, now time.Time) []models.User {
	const twoYears = 2 * 365 * 24 * time.Hour

	users := make([]models.User, 0, count)
	for i := 1; i <= count; i++ {
		pool := maleNames
		if rng.Intn(2) == 1 {
			pool = femaleNames
		}
		first := pool[rng.Intn(len(pool))].first
		last := pool[rng.Intn(len(pool))].last

		registered := now.Add(-time.Duration(rng.Int63n(int64(twoYears))))
		lastActivity := registered.Add(time.Duration(rng.Int63n(int64(now.Sub(registered)) + 1)))

		status := models.StatusActive
		if rng.Intn(4) == 0 {
			status = models.StatusInactive
		}

		var avatar *string
		if rng.Intn(3) > 0 {
			url := fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rng.Intn(70)+1)
			avatar = &url
		}

		users = append(users, models.User{
			ID:               i,
			Name:             fmt.Sprintf("%s %s %d", first, last, i),
			Email:            fmt.Sprintf("user%d@example.com", i),
			Role:             roleWeights[rng.Intn(len(roleWeights))],
			Status:           status,
			RegistrationDate: registered.Truncate(time.Second),
			LastActivity:     lastActivity.Truncate(time.Second),
			Avatar:           avatar,
			LoginCount:       rng.Intn(500),
			PostsCount:       rng.Intn(200),
			CommentsCount:    rng.Intn(1000),
		})
	}
	return users
}
