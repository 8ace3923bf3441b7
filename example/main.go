// Command example generates a small blog dataset in code and prints it as
// JSON. Posts are declared before users on purpose: the engine works out
// the order itself.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Rana718/seedgraph/internal/export"
	"github.com/Rana718/seedgraph/internal/seeder"
)

func main() {
	tags := seeder.NewCrossJoin("posts", "tags")

	engine, err := seeder.New(seeder.Config{Tables: []seeder.Table{
		{Name: "posts", Count: 4, Schema: []seeder.Column{
			{Name: "id", Field: seeder.UUID()},
			{Name: "authorId", Field: seeder.Relation("users")},
			{Name: "replyTo", Field: seeder.Relation("posts")},
			{Name: "title", Field: seeder.Title()},
			{Name: "publishedAt", Field: seeder.DatePast(1)},
		}},
		{Name: "users", Count: 2, Schema: []seeder.Column{
			{Name: "id", Field: seeder.UUID()},
			{Name: "name", Field: seeder.FullName()},
			{Name: "email", Field: seeder.Email()},
		}},
		{Name: "comments", Count: 6, Schema: []seeder.Column{
			{Name: "id", Field: seeder.Sequence(1)},
			{Name: "postId", Field: seeder.Relation("posts")},
			{Name: "userId", Field: seeder.Relation("users")},
			{Name: "body", Field: seeder.Sentence(8)},
		}},
		{Name: "tags", Count: 3, Schema: []seeder.Column{
			{Name: "id", Field: seeder.Sequence(1)},
			{Name: "label", Field: seeder.Word()},
		}},
		{Name: "post_tags", Count: 5, Schema: []seeder.Column{
			{Name: "postId", Field: tags.Left()},
			{Name: "tagId", Field: tags.Right()},
		}},
	}}, seeder.WithOutput(os.Stderr))
	if err != nil {
		log.Fatal(err)
	}
	engine.Seed(42)

	data, err := engine.Generate()
	if err != nil {
		log.Fatal(err)
	}

	order, _ := engine.Order()
	out, err := export.ToJSON(data, order)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
