package db

// SchemaSQL defines the script_job table.
const SchemaSQL = `
DEFINE TABLE IF NOT EXISTS script_job SCHEMAFULL;
DEFINE FIELD IF NOT EXISTS topic ON script_job TYPE string;
DEFINE FIELD IF NOT EXISTS style ON script_job TYPE string;
DEFINE FIELD IF NOT EXISTS status ON script_job TYPE string
    ASSERT $value IN ["processing", "completed", "failed"];
DEFINE FIELD IF NOT EXISTS result ON script_job TYPE option<string>;
DEFINE FIELD IF NOT EXISTS error ON script_job TYPE option<string>;
DEFINE FIELD IF NOT EXISTS rounds ON script_job TYPE int DEFAULT 0;
DEFINE FIELD IF NOT EXISTS created_at ON script_job TYPE datetime;
DEFINE FIELD IF NOT EXISTS completed_at ON script_job TYPE option<datetime>;

DEFINE INDEX IF NOT EXISTS script_job_status ON script_job FIELDS status;
`
