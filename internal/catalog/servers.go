package catalog

// Server is one capability area of the tool catalog.
type Server struct {
	Name        string
	Description string
	Keywords    []string
}

var servers = []Server{
	{
		Name:        "filesystem",
		Description: "list, read, write, move, copy, delete, search files",
		Keywords:    []string{"file", "folder", "directory", "path", "rename", "move", "copy"},
	},
	{
		Name:        "document",
		Description: "extract text from PDF/DOCX, convert formats, diff, create PDF/DOCX",
		Keywords:    []string{"pdf", "docx", "document", "convert", "contract", "report"},
	},
	{
		Name:        "ocr",
		Description: "extract text from images/screenshots, extract structured data",
		Keywords:    []string{"image", "screenshot", "scan", "receipt", "photo", "png", "jpg"},
	},
	{
		Name:        "data",
		Description: "CSV/SQLite operations, deduplication, anomaly detection",
		Keywords:    []string{"csv", "sqlite", "table", "rows", "duplicate", "anomaly", "dataset"},
	},
	{
		Name:        "knowledge",
		Description: "semantic search across indexed documents, RAG Q&A",
		Keywords:    []string{"search", "index", "knowledge", "question", "notes"},
	},
	{
		Name:        "security",
		Description: "PII/secrets scanning, file encryption, duplicate finding",
		Keywords:    []string{"pii", "secret", "encrypt", "decrypt", "sensitive", "password"},
	},
	{
		Name:        "task",
		Description: "create/update/list tasks, daily briefing",
		Keywords:    []string{"task", "todo", "briefing", "deadline", "priority"},
	},
	{
		Name:        "calendar",
		Description: "list events, create events, find free slots",
		Keywords:    []string{"calendar", "event", "meeting", "schedule", "slot", "availability"},
	},
	{
		Name:        "email",
		Description: "draft/send emails, search, summarize threads",
		Keywords:    []string{"email", "mail", "inbox", "thread", "reply", "send"},
	},
	{
		Name:        "meeting",
		Description: "transcribe audio, extract action items, generate minutes",
		Keywords:    []string{"meeting", "audio", "recording", "transcript", "minutes", "action"},
	},
	{
		Name:        "audit",
		Description: "tool usage logs, session summaries",
		Keywords:    []string{"audit", "log", "usage", "session", "history"},
	},
	{
		Name:        "clipboard",
		Description: "read/write system clipboard",
		Keywords:    []string{"clipboard", "paste", "copied"},
	},
	{
		Name:        "system",
		Description: "system info, open apps, take screenshots",
		Keywords:    []string{"system", "app", "application", "cpu", "memory", "disk", "screenshot"},
	},
}

// Servers returns the capability areas in prompt order.
func Servers() []Server {
	out := make([]Server, len(servers))
	copy(out, servers)
	return out
}

// LookupServer finds a capability area by name.
func LookupServer(name string) (Server, bool) {
	for _, s := range servers {
		if s.Name == name {
			return s, true
		}
	}
	return Server{}, false
}
