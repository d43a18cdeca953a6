package server

import (
	"net/http"

	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/auth"
	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/forum"
)

const demoPassword = "govols123"

var demoUsers = []struct {
	Username string
	Email    string
}{
	{"SmokeyTheDog", "smokey@volsforum.com"},
	{"NeylandLegend", "neyland@volsforum.com"},
	{"RockyTopFan", "rocky@volsforum.com"},
}

var demoCategories = []string{
	"Game Day Talk",
	"Players & Recruiting",
	"Stats & Analysis",
	"Vols History",
	"SEC Rivalries",
	"Fan Zone",
}

var demoPosts = []struct {
	Title    string
	Content  string
	Category string
}{
	{
		Title:    "Game Day Thread: Vols vs Alabama!",
		Content:  "Who's ready for the Third Saturday in October? Let's hear those score predictions and tailgate setups!",
		Category: "Game Day Talk",
	},
	{
		Title:    "Recruiting Update: 5-star QB visiting Knoxville",
		Content:  "Rumor is that a top high school QB will be on campus this weekend. Could be a big get for 2025!",
		Category: "Players & Recruiting",
	},
	{
		Title:    "Breaking Down Joe Milton's 2024 Stats",
		Content:  "Let's talk about completion percentage, yards per attempt, and how the offense looked under pressure.",
		Category: "Stats & Analysis",
	},
	{
		Title:    "Flashback: 1998 National Championship Season",
		Content:  "Take a trip down memory lane — what's your favorite play from the '98 run?",
		Category: "Vols History",
	},
	{
		Title:    "SEC Rivalries: Which team do you love to hate?",
		Content:  "Florida, Alabama, Georgia — who's the biggest rival in your eyes and why?",
		Category: "SEC Rivalries",
	},
	{
		Title:    "Vol Fan Zone: Share Your Tailgate Photos!",
		Content:  "Let's see those orange tents, checkerboard dips, and Smokey plushies! #VolNation",
		Category: "Fan Zone",
	},
}

// handleSeedDemo resets and re-inserts the demo data set. It only touches
// the demo accounts and demo categories, so re-running it is safe.
func (s *Server) handleSeedDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	names := make([]string, len(demoUsers))
	for i, du := range demoUsers {
		names[i] = du.Username
	}
	if err := s.users.RemoveByUsernames(ctx, names); err != nil {
		s.logger.Printf("seed: clear users: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error while seeding demo data.")
		return
	}
	if err := s.posts.RemoveByCategories(ctx, demoCategories); err != nil {
		s.logger.Printf("seed: clear posts: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error while seeding demo data.")
		return
	}

	// One digest shared by all demo accounts keeps re-seeding quick.
	hash, err := auth.HashPassword(auth.DefaultHashCost, demoPassword)
	if err != nil {
		s.logger.Printf("seed: hash: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error while seeding demo data.")
		return
	}

	accounts := make([]demoAccount, 0, len(demoUsers))
	created := make([]*auth.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		u := &auth.User{Username: du.Username, Email: du.Email, PassHash: hash}
		if err := s.users.Add(ctx, u); err != nil {
			s.logger.Printf("seed: add user %s: %v", du.Username, err)
			writeMessage(w, http.StatusInternalServerError, "Server error while seeding demo data.")
			return
		}
		created = append(created, u)
		accounts = append(accounts, demoAccount{Email: u.Email, Password: demoPassword})
	}

	for i, dp := range demoPosts {
		author := created[i%len(created)]
		post := &forum.Post{
			Title:      dp.Title,
			Content:    dp.Content,
			Category:   dp.Category,
			AuthorID:   author.ID,
			AuthorName: author.Username,
		}
		if err := s.posts.Insert(ctx, post); err != nil {
			s.logger.Printf("seed: add post %q: %v", dp.Title, err)
			writeMessage(w, http.StatusInternalServerError, "Server error while seeding demo data.")
			return
		}
	}

	s.logger.Printf("demo data seeded: %d users, %d posts", len(created), len(demoPosts))
	writeJSON(w, seedDemoResponse{
		Message:      "Demo data added successfully!",
		DemoAccounts: accounts,
	})
}
