package catalog

import "encoding/json"

func def(name, desc, params string) ToolDefinition {
	return ToolDefinition{Name: name, Description: desc, Params: json.RawMessage(params)}
}

const (
	pathParam  = `{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`
	queryParam = `{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`
	emptyParam = `{"type":"object","properties":{}}`
)

var builtinTools = []ToolDefinition{
	def("filesystem.list_dir", "List files and folders in a directory", `{"type":"object","properties":{"path":{"type":"string"},"recursive":{"type":"boolean"}},"required":["path"]}`),
	def("filesystem.read_file", "Read the contents of a text file", pathParam),
	def("filesystem.write_file", "Write text content to a file, creating it if needed", `{"type":"object","properties":{"path":{"type":"string"},"content":{"type":"string"}},"required":["path","content"]}`),
	def("filesystem.move_file", "Move or rename a file", `{"type":"object","properties":{"source":{"type":"string"},"destination":{"type":"string"}},"required":["source","destination"]}`),
	def("filesystem.copy_file", "Copy a file to a new location", `{"type":"object","properties":{"source":{"type":"string"},"destination":{"type":"string"}},"required":["source","destination"]}`),
	def("filesystem.delete_file", "Delete a file (moves it to trash)", pathParam),
	def("filesystem.search_files", "Search for files by name pattern or content", `{"type":"object","properties":{"path":{"type":"string"},"pattern":{"type":"string"}},"required":["pattern"]}`),
	def("filesystem.get_file_info", "Get size, type and modification time of a file", pathParam),

	def("document.extract_text", "Extract text from a PDF or DOCX document", pathParam),
	def("document.convert_format", "Convert a document between PDF, DOCX, Markdown and HTML", `{"type":"object","properties":{"path":{"type":"string"},"target_format":{"type":"string","enum":["pdf","docx","md","html"]}},"required":["path","target_format"]}`),
	def("document.diff_documents", "Compare two documents and list the differences", `{"type":"object","properties":{"path_a":{"type":"string"},"path_b":{"type":"string"}},"required":["path_a","path_b"]}`),
	def("document.create_pdf", "Create a PDF document from text or Markdown", `{"type":"object","properties":{"content":{"type":"string"},"output_path":{"type":"string"}},"required":["content","output_path"]}`),
	def("document.create_docx", "Create a Word document from text or Markdown", `{"type":"object","properties":{"content":{"type":"string"},"output_path":{"type":"string"}},"required":["content","output_path"]}`),

	def("ocr.extract_text_from_image", "Extract text from an image or screenshot", pathParam),
	def("ocr.extract_structured_data", "Extract structured fields (totals, dates, vendors) from a scanned receipt or invoice image", `{"type":"object","properties":{"path":{"type":"string"},"fields":{"type":"array","items":{"type":"string"}}},"required":["path"]}`),
	def("ocr.extract_table", "Extract a table from an image into rows and columns", pathParam),

	def("data.query_csv", "Run a filter or aggregation over a CSV file", `{"type":"object","properties":{"path":{"type":"string"},"query":{"type":"string"}},"required":["path","query"]}`),
	def("data.query_sqlite", "Run a read-only SQL query against a SQLite database", `{"type":"object","properties":{"path":{"type":"string"},"sql":{"type":"string"}},"required":["path","sql"]}`),
	def("data.deduplicate_records", "Remove duplicate rows from a CSV file", `{"type":"object","properties":{"path":{"type":"string"},"key_columns":{"type":"array","items":{"type":"string"}}},"required":["path"]}`),
	def("data.detect_anomalies", "Detect outliers and anomalies in a numeric column", `{"type":"object","properties":{"path":{"type":"string"},"column":{"type":"string"}},"required":["path","column"]}`),
	def("data.summarize_dataset", "Summarize columns, types and statistics of a dataset", pathParam),
	def("data.write_csv", "Write rows to a CSV file", `{"type":"object","properties":{"path":{"type":"string"},"rows":{"type":"array"}},"required":["path","rows"]}`),

	def("knowledge.search_documents", "Semantic search across indexed documents", queryParam),
	def("knowledge.ask_question", "Answer a question using indexed documents (RAG)", `{"type":"object","properties":{"question":{"type":"string"}},"required":["question"]}`),
	def("knowledge.index_folder", "Index a folder of documents for semantic search", pathParam),

	def("security.scan_for_pii", "Scan files for personally identifiable information such as SSNs, emails and phone numbers", pathParam),
	def("security.scan_for_secrets", "Scan files for API keys, passwords and other secrets", pathParam),
	def("security.encrypt_file", "Encrypt a file with a passphrase", `{"type":"object","properties":{"path":{"type":"string"},"passphrase":{"type":"string"}},"required":["path"]}`),
	def("security.decrypt_file", "Decrypt a previously encrypted file", pathParam),
	def("security.find_duplicates", "Find duplicate files by content hash", pathParam),

	def("task.create_task", "Create a task with a title, due date and priority", `{"type":"object","properties":{"title":{"type":"string"},"due":{"type":"string"},"priority":{"type":"string"}},"required":["title"]}`),
	def("task.update_task", "Update the status, due date or priority of a task", `{"type":"object","properties":{"id":{"type":"string"},"status":{"type":"string"}},"required":["id"]}`),
	def("task.list_tasks", "List tasks filtered by status or due date", `{"type":"object","properties":{"status":{"type":"string"}}}`),
	def("task.daily_briefing", "Summarize today's tasks, events and unread email", emptyParam),

	def("calendar.list_events", "List calendar events in a date range", `{"type":"object","properties":{"start":{"type":"string"},"end":{"type":"string"}}}`),
	def("calendar.create_event", "Create a calendar event with attendees", `{"type":"object","properties":{"title":{"type":"string"},"start":{"type":"string"},"duration_minutes":{"type":"integer"},"attendees":{"type":"array","items":{"type":"string"}}},"required":["title","start"]}`),
	def("calendar.find_free_slots", "Find free time slots in the calendar", `{"type":"object","properties":{"date":{"type":"string"},"duration_minutes":{"type":"integer"}}}`),

	def("email.draft_email", "Draft an email without sending it", `{"type":"object","properties":{"to":{"type":"array","items":{"type":"string"}},"subject":{"type":"string"},"body":{"type":"string"}},"required":["to","subject"]}`),
	def("email.send_email", "Send an email to one or more recipients", `{"type":"object","properties":{"to":{"type":"array","items":{"type":"string"}},"subject":{"type":"string"},"body":{"type":"string"}},"required":["to","subject","body"]}`),
	def("email.search_emails", "Search the mailbox by sender, subject or content", queryParam),
	def("email.summarize_thread", "Summarize an email thread", `{"type":"object","properties":{"thread_id":{"type":"string"}},"required":["thread_id"]}`),

	def("meeting.transcribe_audio", "Transcribe a meeting audio recording", pathParam),
	def("meeting.extract_action_items", "Extract action items and owners from a transcript", `{"type":"object","properties":{"transcript":{"type":"string"}},"required":["transcript"]}`),
	def("meeting.generate_minutes", "Generate meeting minutes from a transcript", `{"type":"object","properties":{"transcript":{"type":"string"},"format":{"type":"string"}},"required":["transcript"]}`),

	def("audit.get_tool_log", "Get the log of tool calls for a time range", `{"type":"object","properties":{"since":{"type":"string"}}}`),
	def("audit.get_session_summary", "Summarize tool usage for a session", `{"type":"object","properties":{"session_id":{"type":"string"}}}`),
	def("audit.generate_audit_report", "Generate an audit report of tool usage", `{"type":"object","properties":{"since":{"type":"string"},"format":{"type":"string"}}}`),

	def("clipboard.get_clipboard", "Read the current clipboard contents", emptyParam),
	def("clipboard.set_clipboard", "Write text to the clipboard", `{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),

	def("system.get_system_info", "Get OS, CPU, memory and disk information", emptyParam),
	def("system.open_application", "Open an application by name", `{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`),
	def("system.take_screenshot", "Take a screenshot of the screen", `{"type":"object","properties":{"output_path":{"type":"string"}}}`),
}
