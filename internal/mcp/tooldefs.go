package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var computeToolDef = mcp.NewTool("recap_compute",
	mcp.WithDescription("Reconcile a chat transcript into a structured recap: one canonical final code snippet, rejected alternatives with reasons, and a narrative summary. Optionally store the result under a session id."),
	mcp.WithString("transcript",
		mcp.Required(),
		mcp.Description("The raw chat transcript to reconcile. Code blocks must use ``` fences."),
	),
	mcp.WithString("session_id",
		mcp.Description("Session key to file the recap under. Generated when omitted."),
	),
	mcp.WithBoolean("store",
		mcp.Description("Persist the recap after computing (default: false)."),
	),
	mcp.WithString("mode",
		mcp.Description("Collision behavior when storing: 'error' (default) or 'replace'."),
		mcp.Enum("error", "replace"),
	),
)

var fetchToolDef = mcp.NewTool("recap_fetch",
	mcp.WithDescription("Retrieve a stored recap by session id, including a one-line context summary for re-injection into a conversation."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session key of the recap to fetch."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Also look at soft-deleted recaps (default: false)."),
	),
)

var latestToolDef = mcp.NewTool("recap_latest",
	mcp.WithDescription("Retrieve the most recently updated recap. Returns a summary by default."),
	mcp.WithBoolean("include_recap",
		mcp.Description("Include the full recap body (default: false)."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Also consider soft-deleted recaps (default: false)."),
	),
)

var listToolDef = mcp.NewTool("recap_list",
	mcp.WithDescription("List recap summaries with pagination, most recently updated first."),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default: 20, max: 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of items to skip (default: 0)."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted recaps (default: false)."),
	),
)

var deleteToolDef = mcp.NewTool("recap_delete",
	mcp.WithDescription("Soft-delete the recap stored under a session id. Recoverable until purged."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session key of the recap to delete."),
	),
)

var purgeToolDef = mcp.NewTool("recap_purge",
	mcp.WithDescription("Permanently remove soft-deleted recaps."),
	mcp.WithNumber("older_than_days",
		mcp.Description("Only purge recaps deleted more than this many days ago."),
	),
)

var exportToolDef = mcp.NewTool("recap_export",
	mcp.WithDescription("Export stored recaps to a JSONL file. Defaults to a timestamped file under ~/.aclew/exports."),
	mcp.WithString("path",
		mcp.Description("Destination file. Must end in .jsonl and sit directly in an allowed directory."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted recaps (default: false)."),
	),
)

var importToolDef = mcp.NewTool("recap_import",
	mcp.WithDescription("Import recaps from a JSONL export file."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source file. Must end in .jsonl and sit directly in an allowed directory."),
	),
	mcp.WithString("mode",
		mcp.Description("Collision behavior: 'error' (default, atomic), 'replace', or 'skip'."),
		mcp.Enum("error", "replace", "skip"),
	),
)
