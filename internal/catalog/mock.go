package catalog

import "fmt"

var mockResults = map[string]string{
	"filesystem.list_dir":       `{"entries":[{"name":"Q3_report.pdf","size":482133},{"name":"receipts","type":"dir"},{"name":"contacts.csv","size":10240},{"name":"meeting_2024-05-02.m4a","size":7340032}]}`,
	"filesystem.read_file":      `{"content":"Project notes: migrate billing service by Friday. Contact: dana@example.com, phone 555-0142."}`,
	"filesystem.write_file":     `{"written":true,"bytes":1024}`,
	"filesystem.move_file":      `{"moved":true}`,
	"filesystem.copy_file":      `{"copied":true}`,
	"filesystem.delete_file":    `{"deleted":true,"trash":true}`,
	"filesystem.search_files":   `{"matches":["~/Documents/contracts/acme_nda.pdf","~/Documents/contracts/vendor_msa.docx"]}`,
	"filesystem.get_file_info":  `{"size":482133,"type":"application/pdf","modified":"2024-05-01T09:12:00Z"}`,
	"document.extract_text":     `{"text":"MASTER SERVICES AGREEMENT. Term: 24 months. Payment: net 30. Termination: 60 days written notice.","pages":12}`,
	"document.convert_format":   `{"output_path":"~/Documents/converted.pdf"}`,
	"document.diff_documents":   `{"changes":[{"section":"Payment","before":"net 45","after":"net 30"}]}`,
	"document.create_pdf":       `{"output_path":"~/Documents/summary.pdf","pages":2}`,
	"document.create_docx":      `{"output_path":"~/Documents/summary.docx"}`,
	"ocr.extract_text_from_image": `{"text":"ACME HARDWARE  Total: $84.17  Date: 2024-04-18","confidence":0.94}`,
	"ocr.extract_structured_data": `{"vendor":"ACME Hardware","total":84.17,"date":"2024-04-18","currency":"USD"}`,
	"ocr.extract_table":         `{"rows":[["Item","Qty","Price"],["Bolts","40","12.00"],["Drill bit","2","18.50"]]}`,
	"data.query_csv":            `{"rows":[{"region":"West","revenue":182000},{"region":"East","revenue":164500}],"row_count":2}`,
	"data.query_sqlite":         `{"rows":[{"id":1,"status":"open"},{"id":7,"status":"open"}]}`,
	"data.deduplicate_records":  `{"input_rows":1200,"output_rows":1143,"duplicates_removed":57}`,
	"data.detect_anomalies":     `{"anomalies":[{"row":311,"value":98000,"zscore":4.2}]}`,
	"data.summarize_dataset":    `{"columns":6,"rows":1200,"numeric":["amount","quantity"]}`,
	"data.write_csv":            `{"written":true,"rows":57}`,
	"knowledge.search_documents": `{"results":[{"path":"~/Documents/policies/travel.md","score":0.82,"snippet":"Economy class for flights under 6 hours."}]}`,
	"knowledge.ask_question":    `{"answer":"Flights under 6 hours must be booked in economy.","sources":["travel.md"]}`,
	"knowledge.index_folder":    `{"indexed":48}`,
	"security.scan_for_pii":     `{"findings":[{"file":"contacts.csv","type":"email","count":212},{"file":"contacts.csv","type":"phone","count":198}]}`,
	"security.scan_for_secrets": `{"findings":[{"file":".env","type":"api_key","line":3}]}`,
	"security.encrypt_file":     `{"encrypted":true,"output_path":"contacts.csv.age"}`,
	"security.decrypt_file":     `{"decrypted":true}`,
	"security.find_duplicates":  `{"groups":[["IMG_2201.jpg","IMG_2201 (1).jpg"]],"reclaimable_bytes":3145728}`,
	"task.create_task":          `{"id":"task-42","created":true}`,
	"task.update_task":          `{"id":"task-42","updated":true}`,
	"task.list_tasks":           `{"tasks":[{"id":"task-40","title":"Send invoice","due":"2024-05-03"},{"id":"task-41","title":"Review NDA","due":"2024-05-06"}]}`,
	"task.daily_briefing":       `{"tasks_due":2,"events":3,"unread_email":14}`,
	"calendar.list_events":      `{"events":[{"title":"Standup","start":"2024-05-02T09:00:00"},{"title":"Vendor call","start":"2024-05-02T14:00:00"}]}`,
	"calendar.create_event":     `{"id":"evt-9","created":true}`,
	"calendar.find_free_slots":  `{"slots":[{"start":"2024-05-02T10:00:00","end":"2024-05-02T11:30:00"}]}`,
	"email.draft_email":         `{"draft_id":"draft-3","saved":true}`,
	"email.send_email":          `{"sent":true,"message_id":"msg-771"}`,
	"email.search_emails":       `{"messages":[{"id":"msg-512","from":"billing@vendor.com","subject":"Invoice #2231"}]}`,
	"email.summarize_thread":    `{"summary":"Vendor agreed to net 30 terms; contract to be signed by Friday."}`,
	"meeting.transcribe_audio":  `{"transcript":"Dana: let's ship the beta Monday. Lee: I'll update the docs by Friday.","duration_sec":1820}`,
	"meeting.extract_action_items": `{"items":[{"owner":"Lee","action":"Update the docs","due":"Friday"},{"owner":"Dana","action":"Ship the beta","due":"Monday"}]}`,
	"meeting.generate_minutes":  `{"minutes":"Decisions: beta ships Monday. Actions: Lee updates docs by Friday."}`,
	"audit.get_tool_log":        `{"entries":[{"tool":"filesystem.read_file","at":"2024-05-01T10:02:00Z"}]}`,
	"audit.get_session_summary": `{"tool_calls":18,"servers":["filesystem","email"]}`,
	"audit.generate_audit_report": `{"output_path":"~/Documents/audit_report.pdf"}`,
	"clipboard.get_clipboard":   `{"text":"https://example.com/invoice/2231"}`,
	"clipboard.set_clipboard":   `{"copied":true}`,
	"system.get_system_info":    `{"os":"macOS 14.4","cpu":"M2","memory_gb":16,"disk_free_gb":212}`,
	"system.open_application":   `{"opened":true}`,
	"system.take_screenshot":    `{"output_path":"~/Desktop/screenshot.png"}`,
}

// MockResult returns the canned result for a tool. Unknown tools get a generic
// success payload naming the tool.
func MockResult(name string) string {
	if r, ok := mockResults[name]; ok {
		return r
	}
	return fmt.Sprintf(`{"status":"success","tool":%q}`, name)
}
