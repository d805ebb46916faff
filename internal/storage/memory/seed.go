package memory

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed начальные данные хранилища
type Seed struct {
	Users    []SeedUser    `yaml:"users"`
	Posts    []SeedPost    `yaml:"posts"`
	Comments []SeedComment `yaml:"comments"`
}

type SeedUser struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Age   *int   `yaml:"age"`
}

type SeedPost struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Published bool   `yaml:"published"`
	Author    string `yaml:"author"`
}

type SeedComment struct {
	ID     string `yaml:"id"`
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
	Post   string `yaml:"post"`
}

// DefaultSeed возвращает встроенный набор данных: 3 пользователя, 3 поста, 4 комментария
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed читает seed из файла. Пустой путь означает встроенный набор.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}

	seed, err := ParseSeed(data)
	if err != nil {
		return nil, errors.Wrapf(err, "seed file %s", path)
	}
	return seed, nil
}

func ParseSeed(data []byte) (*Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	seed := &Seed{}
	if err := dec.Decode(seed); err != nil {
		return nil, errors.Wrap(err, "decode seed")
	}

	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return seed, nil
}

// Validate проверяет уникальность ID и email, а также ссылки на авторов и посты
func (s *Seed) Validate() error {
	userIDs := make(map[string]struct{}, len(s.Users))
	emails := make(map[string]struct{}, len(s.Users))
	for _, u := range s.Users {
		if u.ID == "" || u.Name == "" || u.Email == "" {
			return errors.Errorf("seed user %q: id, name and email are required", u.ID)
		}
		if _, ok := userIDs[u.ID]; ok {
			return errors.Errorf("seed user %q: duplicate id", u.ID)
		}
		if _, ok := emails[u.Email]; ok {
			return errors.Errorf("seed user %q: duplicate email %s", u.ID, u.Email)
		}
		userIDs[u.ID] = struct{}{}
		emails[u.Email] = struct{}{}
	}

	postIDs := make(map[string]struct{}, len(s.Posts))
	for _, p := range s.Posts {
		if p.ID == "" || p.Title == "" {
			return errors.Errorf("seed post %q: id and title are required", p.ID)
		}
		if _, ok := postIDs[p.ID]; ok {
			return errors.Errorf("seed post %q: duplicate id", p.ID)
		}
		if _, ok := userIDs[p.Author]; !ok {
			return errors.Errorf("seed post %q: unknown author %q", p.ID, p.Author)
		}
		postIDs[p.ID] = struct{}{}
	}

	commentIDs := make(map[string]struct{}, len(s.Comments))
	for _, c := range s.Comments {
		if c.ID == "" || c.Text == "" {
			return errors.Errorf("seed comment %q: id and text are required", c.ID)
		}
		if _, ok := commentIDs[c.ID]; ok {
			return errors.Errorf("seed comment %q: duplicate id", c.ID)
		}
		if _, ok := userIDs[c.Author]; !ok {
			return errors.Errorf("seed comment %q: unknown author %q", c.ID, c.Author)
		}
		// seed-комментарий может ссылаться на неопубликованный пост, как "103" -> "11"
		if _, ok := postIDs[c.Post]; !ok {
			return errors.Errorf("seed comment %q: unknown post %q", c.ID, c.Post)
		}
		commentIDs[c.ID] = struct{}{}
	}

	return nil
}

// NewStorages создает три хранилища, заполненные данными seed.
// Каждый вызов возвращает независимые экземпляры.
func NewStorages(seed *Seed) (*UserMemoryStorage, *PostMemoryStorage, *CommentMemoryStorage) {
	if seed == nil {
		seed = &Seed{}
	}

	users := make([]*model.User, 0, len(seed.Users))
	for _, u := range seed.Users {
		users = append(users, model.NewUser(u.ID, model.CreateUserInput{
			Name:  u.Name,
			Email: u.Email,
			Age:   u.Age,
		}))
	}

	posts := make([]*model.Post, 0, len(seed.Posts))
	for _, p := range seed.Posts {
		posts = append(posts, model.NewPost(p.ID, model.CreatePostInput{
			Title:     p.Title,
			Body:      p.Body,
			Published: p.Published,
			Author:    p.Author,
		}))
	}

	comments := make([]*model.Comment, 0, len(seed.Comments))
	for _, c := range seed.Comments {
		comments = append(comments, model.NewComment(c.ID, model.CreateCommentInput{
			Text:   c.Text,
			Author: c.Author,
			Post:   c.Post,
		}))
	}

	return NewUserMemoryStorage(users...), NewPostMemoryStorage(posts...), NewCommentMemoryStorage(comments...)
}
