package seeder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultReferenceTime anchors relative dates once a faker is seeded.
var DefaultReferenceTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
		"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Alice", "Bob", "Diana", "Eve",
		"Frank", "Grace", "Henry", "Olivia", "Nathan", "Sophia", "Peter", "Hannah",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
		"Thomas", "Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson",
		"White", "Harris", "Clark", "Lewis", "Walker", "Young", "King", "O'Connor",
	}
	emailDomains = []string{"example.com", "test.com", "demo.com", "mail.com"}
	words        = []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta",
		"lorem", "ipsum", "dolor", "sit", "amet", "quick", "brown", "fox",
		"data", "cloud", "system", "network", "platform", "service", "market", "growth",
	}
	sentences = []string{
		"This is a sample text generated for testing purposes.",
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		"The quick brown fox jumps over the lazy dog.",
		"Software development requires careful planning and execution.",
		"Database design is crucial for application performance.",
	}
	titler = cases.Title(language.English)
)

// Faker is the scalar value source. Each engine owns one, so independent
// engines never share random state.
type Faker struct {
	rand     *rand.Rand
	counter  int
	ref      time.Time
	refFixed bool
}

// NewFaker returns an unseeded faker anchored at the current time.
func NewFaker() *Faker {
	return &Faker{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		ref:  time.Now().UTC(),
	}
}

// Seed resets the faker to a deterministic state. Unless a reference time
// was set explicitly, relative dates are anchored at DefaultReferenceTime.
func (g *Faker) Seed(value int64) {
	g.rand = rand.New(rand.NewSource(value))
	g.counter = 0
	if !g.refFixed {
		g.ref = DefaultReferenceTime
	}
}

func (g *Faker) SetReferenceTime(t time.Time) {
	g.ref = t.UTC()
	g.refFixed = true
}

func (g *Faker) ReferenceTime() time.Time { return g.ref }

func (g *Faker) Rand() *rand.Rand { return g.rand }

func (g *Faker) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rand.Intn(n)
}

// IntRange returns a value in [min, max].
func (g *Faker) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

// FloatRange returns a value in [min, max) rounded to cents.
func (g *Faker) FloatRange(min, max float64) float64 {
	v := min + g.rand.Float64()*(max-min)
	return float64(int64(v*100)) / 100
}

func (g *Faker) Shuffle(n int, swap func(i, j int)) {
	g.rand.Shuffle(n, swap)
}

func (g *Faker) Pick(values []any) any {
	if len(values) == 0 {
		return nil
	}
	return values[g.rand.Intn(len(values))]
}

func (g *Faker) Bool() bool {
	return g.rand.Intn(2) == 1
}

func (g *Faker) UUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		// math/rand never fails to read
		return uuid.Nil.String()
	}
	return id.String()
}

func (g *Faker) FirstName() string {
	return firstNames[g.rand.Intn(len(firstNames))]
}

func (g *Faker) LastName() string {
	return lastNames[g.rand.Intn(len(lastNames))]
}

func (g *Faker) FullName() string {
	return g.FirstName() + " " + g.LastName()
}

func (g *Faker) Email() string {
	g.counter++
	local := strings.ToLower(g.FirstName()) + "." + strings.ToLower(strings.ReplaceAll(g.LastName(), "'", ""))
	return fmt.Sprintf("%s%d@%s", local, g.counter, emailDomains[g.rand.Intn(len(emailDomains))])
}

func (g *Faker) Word() string {
	return words[g.rand.Intn(len(words))]
}

// Sentence returns n random words, capitalised and terminated by a period.
// With n <= 0 it returns one of the canned sentences.
func (g *Faker) Sentence(n int) string {
	if n <= 0 {
		return sentences[g.rand.Intn(len(sentences))]
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.Word()
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (g *Faker) Title() string {
	parts := make([]string, 2+g.rand.Intn(3))
	for i := range parts {
		parts[i] = g.Word()
	}
	return titler.String(strings.Join(parts, " "))
}

func (g *Faker) URL() string {
	return fmt.Sprintf("https://example.com/page/%d", g.rand.Intn(1000))
}

func (g *Faker) Phone() string {
	return fmt.Sprintf("+1-%03d-%03d-%04d", g.rand.Intn(1000), g.rand.Intn(1000), g.rand.Intn(10000))
}

func (g *Faker) Address() string {
	return fmt.Sprintf("%d Main Street, City, State %05d", g.rand.Intn(9999)+1, g.rand.Intn(100000))
}

// DatePast returns a time within the given number of years before the
// reference time.
func (g *Faker) DatePast(years int) time.Time {
	if years <= 0 {
		years = 1
	}
	span := int64(years) * 365 * 24 * int64(time.Hour/time.Millisecond)
	offset := time.Duration(1+g.rand.Int63n(span)) * time.Millisecond
	return g.ref.Add(-offset).Truncate(time.Millisecond)
}

// DateSoon returns a time after ref and at most days days later.
func (g *Faker) DateSoon(ref time.Time, days int) time.Time {
	if days <= 0 {
		days = 1
	}
	span := int64(days) * 24 * int64(time.Hour/time.Millisecond)
	offset := time.Duration(1+g.rand.Int63n(span)) * time.Millisecond
	return ref.Add(offset)
}

// ForColumn picks a value from the column name first, then from its SQL
// type. Nullable columns come back nil about a fifth of the time.
func (g *Faker) ForColumn(colName, colType string, nullable bool) any {
	if nullable && g.rand.Intn(10) < 2 {
		return nil
	}

	colLower := strings.ToLower(colName)

	if strings.Contains(colLower, "email") {
		return g.Email()
	}
	if strings.Contains(colLower, "name") && !strings.Contains(colLower, "file") && !strings.Contains(colLower, "user") {
		return g.FullName()
	}
	if strings.Contains(colLower, "title") {
		return g.Title()
	}
	if strings.Contains(colLower, "description") || strings.Contains(colLower, "content") {
		return g.Sentence(0)
	}
	if strings.Contains(colLower, "url") || strings.Contains(colLower, "link") {
		return g.URL()
	}
	if strings.Contains(colLower, "phone") {
		return g.Phone()
	}
	if strings.Contains(colLower, "address") {
		return g.Address()
	}

	return g.forType(colType)
}

func (g *Faker) forType(colType string) any {
	typeUpper := strings.ToUpper(colType)

	// VARCHAR(255) -> VARCHAR
	if idx := strings.Index(typeUpper, "("); idx > 0 {
		typeUpper = typeUpper[:idx]
	}

	switch {
	case strings.Contains(typeUpper, "INT") || strings.Contains(typeUpper, "SERIAL"):
		return g.rand.Intn(1000000) + 1
	case strings.Contains(typeUpper, "BOOL"):
		return g.Bool()
	case strings.Contains(typeUpper, "TIMESTAMP") || strings.Contains(typeUpper, "DATETIME"):
		return g.DatePast(1)
	case strings.Contains(typeUpper, "DATE"):
		return g.DatePast(1).Format("2006-01-02")
	case strings.Contains(typeUpper, "DECIMAL") || strings.Contains(typeUpper, "NUMERIC") ||
		strings.Contains(typeUpper, "FLOAT") || strings.Contains(typeUpper, "DOUBLE") || strings.Contains(typeUpper, "REAL"):
		return g.FloatRange(0, 10000)
	case strings.Contains(typeUpper, "UUID"):
		return g.UUID()
	case strings.Contains(typeUpper, "JSON"):
		return `{"generated": true}`
	default:
		return g.Word()
	}
}
