// Package sqlinline holds every SQL statement the service runs. Each
// statement starts with a `--sql <uuid>` marker so it can be traced in
// pg_stat_statements.
package sqlinline

const QCreateCategories = `--sql 3b0f6f0e-8d0c-4f0a-9a51-2f7c1d6f4a10
create table if not exists categories (
  id                   int primary key,
  name                 text not null unique,
  description          text not null default '',
  style_guideline      text not null default '',
  descriptive_elements text[],
  style_variations     text[],
  updated_at           timestamptz not null default now()
);
`

const QListCategories = `--sql 8c2d4e61-5b7a-4f39-b0c2-6e1f9a3d2b57
select
  id,
  name,
  description,
  style_guideline,
  coalesce(descriptive_elements, '{}'::text[]),
  coalesce(style_variations, '{}'::text[])
from categories
order by id asc;
`

const QUpsertCategory = `--sql e4a9c7b2-1f3d-4c8e-9a6b-5d2f0e7c1a94
insert into categories(id, name, description, style_guideline, descriptive_elements, style_variations, updated_at)
values ($1::int, $2::text, $3::text, $4::text, $5::text[], $6::text[], now())
on conflict (id) do update set
  name = excluded.name,
  description = excluded.description,
  style_guideline = excluded.style_guideline,
  descriptive_elements = excluded.descriptive_elements,
  style_variations = excluded.style_variations,
  updated_at = now();
`
