package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBracket(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"single", `[filesystem.list_dir(path="~/Documents")]`, []string{"filesystem.list_dir"}},
		{"with prose", `Sure. [email.send_email(to="a@b.c", subject="hi")] done`, []string{"email.send_email"}},
		{"list in one bracket", `[ocr.extract_text_from_image(path="r.png"), data.write_csv(path="o.csv")]`, []string{"ocr.extract_text_from_image", "data.write_csv"}},
		{"two brackets", `[a.b()] then [c.d(x=1)]`, []string{"a.b", "c.d"}},
		{"space before paren", `[task.create_task (title="x")]`, []string{"task.create_task"}},
		{"undotted ignored", `[list_dir(path=".")]`, nil},
		{"plain text", `I will list the directory for you.`, nil},
		{"dotted outside bracket", `call filesystem.list_dir(path=".")`, nil},
		{"paren then comma in prose", `I listed them (see above), filesystem.read_file(path="a") would be next but I won't call it.`, nil},
		{"list ends at bracket", `[a.b(x=1)], c.d(y=2)`, []string{"a.b"}},
		{"quoted parens in args", `[document.create_pdf(title="Q3 (draft), v2"), email.send_email(to="x")]`, []string{"document.create_pdf", "email.send_email"}},
		{"nested parens in args", `[data.query_sqlite(sql="SELECT count(*) FROM t"), data.summarize(x=f(1))]`, []string{"data.query_sqlite", "data.summarize"}},
		{"unterminated call", `[filesystem.list_dir(path="~`, []string{"filesystem.list_dir"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseBracket(tc.content))
		})
	}
}

func TestIsDeflection(t *testing.T) {
	assert.True(t, IsDeflection("I'm sorry, but I can't access your files."))
	assert.True(t, IsDeflection("I don’t have access to your calendar."))
	assert.True(t, IsDeflection("Could you please provide the file path?"))
	assert.False(t, IsDeflection(""))
	assert.False(t, IsDeflection("Listing the folder now."))
}
