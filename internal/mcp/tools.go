package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askGovernanceTool defines the ask_governance MCP tool.
var askGovernanceTool = mcp.NewTool("ask_governance",
	mcp.WithDescription("Ask the data governance assistant a question in natural language. Covers catalog search, table schemas, data quality, PII exposure, pipeline health, compliance regulations, and SQL templates. Responses are markdown."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language question, e.g. 'find table customers' or 'show data quality'"),
	),
)

// searchAssetsTool defines the search_assets MCP tool.
var searchAssetsTool = mcp.NewTool("search_assets",
	mcp.WithDescription("Search the data catalog directly for tables, views, and databases."),
	mcp.WithString("term",
		mcp.Required(),
		mcp.Description("Search term matched against asset names and descriptions"),
	),
	mcp.WithString("type_filter",
		mcp.Description("Restrict results to one asset type"),
		mcp.Enum("table", "view", "database"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)
