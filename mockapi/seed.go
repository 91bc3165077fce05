package mockapi

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	blogclient "github.com/goliatone/go-blog-client"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     blogclient.UserRole
	avatar   string
}

var seedAccounts = []seedAccount{
	{name: "Admin User", email: "admin@blog.com", password: "admin123", role: blogclient.RoleAdmin, avatar: "https://i.pravatar.cc/150?img=68"},
	{name: "Sarah Johnson", email: "author@blog.com", password: "author123", role: blogclient.RoleAuthor, avatar: "https://i.pravatar.cc/150?img=1"},
	{name: "Casual Reader", email: "reader@blog.com", password: "reader123", role: blogclient.RoleReader},
}

func (s *Server) seed() {
	for _, sa := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(sa.password), bcrypt.MinCost)
		if err != nil {
			continue
		}

		s.nextUserID++
		s.users[sa.email] = &account{
			user: blogclient.User{
				ID:     s.nextUserID,
				Email:  sa.email,
				Name:   sa.name,
				Role:   sa.role,
				Avatar: sa.avatar,
			},
			passwordHash: hash,
		}
	}

	for _, post := range seedPosts() {
		if post.ID > s.nextPostID {
			s.nextPostID = post.ID
		}
		s.posts[post.ID] = post
	}
}

func seedPosts() []blogclient.Post {
	return []blogclient.Post{
		{
			ID:            1,
			Title:         "Getting Started with Angular 20",
			Slug:          "getting-started-with-angular-20",
			Excerpt:       "Learn about the latest features in Angular 20 including zoneless change detection and improved signals.",
			Content:       "<h2>Introduction</h2><p>Angular 20 brings exciting new features that make development faster and more intuitive.</p>",
			Author:        blogclient.AuthorRef{Name: "Sarah Johnson"},
			AuthorAvatar:  "https://i.pravatar.cc/150?img=1",
			CoverImage:    "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800",
			Tags:          []string{"Angular", "Web Development", "TypeScript"},
			Category:      blogclient.CategoryRef{Name: "Frontend"},
			PublishedDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			ReadTime:      5,
			Likes:         124,
			Views:         1520,
			Featured:      true,
			Published:     true,
		},
		{
			ID:            2,
			Title:         "Building RESTful APIs with NestJS",
			Slug:          "building-restful-apis-with-nestjs",
			Excerpt:       "A comprehensive guide to building scalable and maintainable REST APIs using NestJS framework.",
			Content:       "<h2>Why NestJS?</h2><p>NestJS is a progressive Node.js framework that provides a robust architecture for server-side applications.</p>",
			Author:        blogclient.AuthorRef{Name: "Michael Chen"},
			AuthorAvatar:  "https://i.pravatar.cc/150?img=12",
			CoverImage:    "https://images.unsplash.com/photo-1555099962-4199c345e5dd?w=800",
			Tags:          []string{"NestJS", "Backend", "Node.js", "REST API"},
			Category:      blogclient.CategoryRef{Name: "Backend"},
			PublishedDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			ReadTime:      8,
			Likes:         89,
			Views:         980,
			Featured:      true,
			Published:     true,
		},
		{
			ID:            3,
			Title:         "Angular Material Design Best Practices",
			Slug:          "angular-material-design-best-practices",
			Excerpt:       "Tips and tricks for using Angular Material components effectively in your applications.",
			Content:       "<h2>Material Design Principles</h2><p>Material Design helps create beautiful and consistent user interfaces.</p>",
			Author:        blogclient.AuthorRef{Name: "Emily Rodriguez"},
			AuthorAvatar:  "https://i.pravatar.cc/150?img=5",
			CoverImage:    "https://images.unsplash.com/photo-1561070791-2526d30994b5?w=800",
			Tags:          []string{"Angular Material", "UI/UX", "Design"},
			Category:      blogclient.CategoryRef{Name: "Frontend"},
			PublishedDate: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
			ReadTime:      6,
			Likes:         156,
			Views:         2100,
			Published:     true,
		},
		{
			ID:            4,
			Title:         "TypeScript Advanced Types Tutorial",
			Slug:          "typescript-advanced-types-tutorial",
			Excerpt:       "Master advanced TypeScript types including generics, conditional types, and mapped types.",
			Content:       "<h2>Introduction to Advanced Types</h2><p>TypeScript's type system is incredibly powerful. Let's explore advanced concepts.</p>",
			Author:        blogclient.AuthorRef{Name: "David Kim"},
			AuthorAvatar:  "https://i.pravatar.cc/150?img=8",
			CoverImage:    "https://images.unsplash.com/photo-1516116216624-53e697fedbea?w=800",
			Tags:          []string{"TypeScript", "Programming", "JavaScript"},
			Category:      blogclient.CategoryRef{Name: "Programming"},
			PublishedDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			ReadTime:      7,
			Likes:         203,
			Views:         1890,
			Published:     true,
		},
	}
}
