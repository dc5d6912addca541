package catalog

import "bookmarket/pkg/domain"

// sampleBooks is the terminal fallback tier: local static data so the
// storefront is never empty, even fully offline.
var sampleBooks = []domain.Book{
	{ID: "sample-1", Title: "The Midnight Library", Author: "Matt Haig", Price: 13.99, ImageURL: "/images/midnight-library.jpg", Genre: "Fiction", Rating: 4.2},
	{ID: "sample-2", Title: "Atomic Habits", Author: "James Clear", Price: 16.20, ImageURL: "/images/atomic-habits.jpg", Genre: "Self-Help", Rating: 4.8},
	{ID: "sample-3", Title: "Project Hail Mary", Author: "Andy Weir", Price: 14.49, ImageURL: "/images/project-hail-mary.jpg", Genre: "Science Fiction", Rating: 4.7},
	{ID: "sample-4", Title: "Educated", Author: "Tara Westover", Price: 12.99, ImageURL: "/images/educated.jpg", Genre: "Memoir", Rating: 4.5},
	{ID: "sample-5", Title: "The Song of Achilles", Author: "Madeline Miller", Price: 11.55, ImageURL: "/images/song-of-achilles.jpg", Genre: "Historical Fiction", Rating: 4.4},
	{ID: "sample-6", Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", Price: 17.80, ImageURL: "/images/thinking-fast-slow.jpg", Genre: "Psychology", Rating: 4.1},
	{ID: "sample-7", Title: "The Name of the Wind", Author: "Patrick Rothfuss", Price: 10.99, ImageURL: "/images/name-of-the-wind.jpg", Genre: "Fantasy", Rating: 4.6},
	{ID: "sample-8", Title: "Sapiens", Author: "Yuval Noah Harari", Price: 18.25, ImageURL: "/images/sapiens.jpg", Genre: "History", Rating: 4.4},
}

// SampleCatalog returns a copy of the bundled sample data.
func SampleCatalog() []domain.Book {
	out := make([]domain.Book, len(sampleBooks))
	copy(out, sampleBooks)
	return out
}
