// Package schemafile loads declarative schema files into a schema.Builder.
//
// A schema file is YAML or TOML:
//
//	name: articles
//	resource: http://hbswk.hbs.edu/topics/it.html
//	base: {css: .tile-medium}
//	properties:
//	  - {title: string, xpath: ".//h4/a/text()"}
//	  - [date, {xpath: ".//li[1]/text()"}]
//	  - {views: integer, css: span.views}
//	key: title
//
// Every properties entry is handed to Builder.Property as-is: a mapping is the
// single-argument shape, a two-element list is the two-argument shape. Validation
// errors are the schema package's sentinels.
package schemafile
