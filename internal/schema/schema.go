package schema

// DDL creates the snapshot history tables.
const DDL = `
create table if not exists metric_samples (
    id integer primary key autoincrement,
    ts integer not null,
    name text not null,
    type text not null,
    value real not null,
    labels blob not null default '{}'
);

create index if not exists idx_metric_samples_ts on metric_samples(ts);
create index if not exists idx_metric_samples_name_ts on metric_samples(name, ts);
`
