package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lists (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	color       TEXT,
	icon        TEXT,
	is_default  INTEGER NOT NULL DEFAULT 0 CHECK(is_default IN (0, 1)),
	created_at  DATETIME NOT NULL,
	order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	content      TEXT,
	is_completed INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	is_important INTEGER NOT NULL DEFAULT 0 CHECK(is_important IN (0, 1)),
	due_date     TEXT,
	start_date   TEXT,
	remind_time  TEXT,
	repeat_rule  TEXT,
	list_id      TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS subtasks (
	id           TEXT PRIMARY KEY,
	task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	is_completed INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_list_id ON tasks(list_id);
CREATE INDEX IF NOT EXISTS idx_subtasks_task_id ON subtasks(task_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
