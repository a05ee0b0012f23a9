package dspager

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// GORMSource implements DataSource for GORM models. T must be a model
// struct type (not a pointer).
//
// The source is either based on a query or on an already loaded collection:
//
//	// fetches all people
//	src, err := dspager.NewGORMSource[Person](db)
//
//	// fetches people with IDs 1 to 100
//	src, err := dspager.NewGORMSource[Person](db.Where("id BETWEEN ? AND ?", 1, 100))
//
//	// uses the given records
//	src, err := dspager.NewGORMCollection(db, people)
//
// Prefer query based sources: sorting, offsets and limits are then done by
// the database. Collection based sources cannot be sorted, they filter and
// skip rows on the client side.
//
// Columns are resolved through the GORM schema of T, either by database
// column name or by Go field name. A dotted column ("Author.name") walks
// belongs-to and has-one relations; sorting or filtering by it joins the
// relation.
//
// Rows are loaded lazily on first access. Changing the offset, limit, sort
// or filters drops the loaded rows and the next read runs the query again.
type GORMSource[T any] struct {
	Base

	db     *gorm.DB
	schema *schema.Schema

	collection bool
	original   []T
	items      []T
	loaded     bool

	sort    Orderings
	filters Filters

	total      int
	totalValid bool
}

// NewGORMSource returns a data source over the rows matched by db. Any
// conditions already present on db are kept.
func NewGORMSource[T any](db *gorm.DB) (*GORMSource[T], error) {
	sch, err := parseModelSchema[T](db)
	if err != nil {
		return nil, err
	}

	return &GORMSource[T]{
		db:     db,
		schema: sch,
	}, nil
}

// NewGORMCollection returns a data source over already loaded records. db
// is only used to resolve the schema of T.
func NewGORMCollection[T any](db *gorm.DB, items []T) (*GORMSource[T], error) {
	sch, err := parseModelSchema[T](db)
	if err != nil {
		return nil, err
	}

	return &GORMSource[T]{
		db:         db,
		schema:     sch,
		collection: true,
		original:   items,
		items:      slices.Clone(items),
		loaded:     true,
	}, nil
}

func parseModelSchema[T any](db *gorm.DB) (*schema.Schema, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: gorm db is nil", ErrInvalidArgument)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("%w: cannot parse model %T: %w", ErrInvalidArgument, lo.Empty[T](), err)
	}

	return stmt.Schema, nil
}

// WithLogger makes the source log its queries with l.
func (s *GORMSource[T]) WithLogger(l logger.Interface) *GORMSource[T] {
	s.db = s.db.Session(&gorm.Session{Logger: l})
	s.invalidate()

	return s
}

// IsCollection reports whether the source is based on loaded records.
func (s *GORMSource[T]) IsCollection() bool {
	return s.collection
}

// Current - implements DataSource. Returns the model under the row pointer.
func (s *GORMSource[T]) Current() (T, error) {
	if err := s.load(); err != nil {
		return lo.Empty[T](), err
	}

	if !s.Valid() {
		return lo.Empty[T](), s.errCursor()
	}

	// Query based sources already skipped the offset in the database.
	offset := lo.Ternary(s.collection, s.Offset(), 0)

	return s.items[s.Key()+offset], nil
}

// Field - implements DataSource. Supports dotted relation paths such as
// "Author.name".
func (s *GORMSource[T]) Field(column string) (any, error) {
	item, err := s.Current()
	if err != nil {
		return nil, err
	}

	return s.fieldOf(item, column)
}

func (s *GORMSource[T]) fieldOf(item T, column string) (any, error) {
	path, err := s.lookupColumn(column)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	rv := reflect.ValueOf(&item).Elem()
	for _, rel := range path.relations {
		rv = reflect.Indirect(rel.Field.ReflectValueOf(ctx, rv))
		if !rv.IsValid() {
			return nil, nil
		}
	}

	value, _ := path.field.ValueOf(ctx, rv)

	return value, nil
}

// HasField - implements DataSource.
func (s *GORMSource[T]) HasField(column string) (bool, error) {
	return HasFieldOf(s, column)
}

// Valid - implements DataSource.
func (s *GORMSource[T]) Valid() bool {
	count, err := s.Count()
	if err != nil {
		s.Fail(err)
		return false
	}

	return s.ValidWithin(count)
}

// Seek - implements DataSource.
func (s *GORMSource[T]) Seek(index int) error {
	count, err := s.Count()
	if err != nil {
		return err
	}

	return s.SeekWithin(index, count)
}

// Count - implements DataSource. Loads the rows if necessary.
func (s *GORMSource[T]) Count() (int, error) {
	if err := s.load(); err != nil {
		return 0, err
	}

	if s.collection {
		return visibleCount(len(s.items), s.Offset(), s.Limit()), nil
	}

	return len(s.items), nil
}

// CountAll - implements DataSource. Query based sources send a count query,
// whose result is kept until the filters change.
func (s *GORMSource[T]) CountAll() (int, error) {
	if s.collection {
		return len(s.items), nil
	}

	if s.totalValid {
		return s.total, nil
	}

	tx, err := s.query()
	if err != nil {
		return 0, err
	}

	var total int64
	if err = tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("%w: cannot count rows: %w", ErrLogic, err)
	}

	s.total = int(total)
	s.totalValid = true

	return s.total, nil
}

// SetOffset - implements DataSource. Drops the loaded rows of query based
// sources.
func (s *GORMSource[T]) SetOffset(offset int) error {
	if err := s.Base.SetOffset(offset); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

// SetLimit - implements DataSource. Drops the loaded rows of query based
// sources.
func (s *GORMSource[T]) SetLimit(limit int) error {
	if err := s.Base.SetLimit(limit); err != nil {
		return err
	}

	s.invalidate()

	return nil
}

// RequireColumn - implements DataSource.
func (s *GORMSource[T]) RequireColumn(column string) error {
	_, err := s.lookupColumn(column)
	return err
}

// SetSort - implements DataSource. Collection based sources cannot be sorted.
func (s *GORMSource[T]) SetSort(column string, direction Direction) error {
	return SortWith(s, column, direction, s.doSort)
}

func (s *GORMSource[T]) doSort(column string, direction Direction) error {
	if s.collection {
		return fmt.Errorf("%w: a data source based on a loaded collection cannot be sorted", ErrLogic)
	}

	s.sort = s.sort.With(OrderBy{Column: column, Direction: direction})
	s.invalidate()

	return nil
}

// AddFilter - implements Filterable.
func (s *GORMSource[T]) AddFilter(column string, value any, comparison Comparison, group GroupOperator) error {
	return FilterWith(s, Filter{
		Column:     column,
		Value:      value,
		Comparison: comparison,
		Group:      group,
	}, s.doFilter)
}

func (s *GORMSource[T]) doFilter(filter Filter) error {
	filters := append(slices.Clone(s.filters), filter)

	if s.collection {
		items := make([]T, 0, len(s.original))
		for _, item := range s.original {
			ok, err := filters.Match(func(column string) (any, error) {
				return s.fieldOf(item, column)
			})
			if err != nil {
				return err
			}

			if ok {
				items = append(items, item)
			}
		}

		s.items = items
	}

	s.filters = filters
	s.totalValid = false
	s.invalidate()
	s.Rewind()

	return nil
}

// Refresh runs the query again if the rows have already been loaded.
func (s *GORMSource[T]) Refresh() error {
	if s.collection || !s.loaded {
		return nil
	}

	s.invalidate()

	return s.load()
}

// Clone - implements DataSource. The clone has its own query state but
// shares the connection pool of the original *gorm.DB.
func (s *GORMSource[T]) Clone() DataSource[T] {
	ret := *s
	ret.items = slices.Clone(s.items)
	ret.sort = slices.Clone(s.sort)
	ret.filters = slices.Clone(s.filters)

	return &ret
}

func (s *GORMSource[T]) invalidate() {
	if s.collection {
		return
	}

	s.loaded = false
	s.items = nil
}

func (s *GORMSource[T]) load() error {
	if s.loaded {
		return nil
	}

	tx, err := s.query()
	if err != nil {
		return err
	}

	for _, ordering := range s.sort {
		path, err := s.lookupColumn(ordering.Column)
		if err != nil {
			return err
		}

		tx = tx.Order(clause.OrderByColumn{
			Column: path.clauseColumn(),
			Desc:   ordering.Direction == DirectionDESC,
		})
	}

	if s.Offset() > 0 {
		tx = tx.Offset(s.Offset())
	}
	if s.Limit() != NoLimit {
		tx = tx.Limit(s.Limit())
	}

	var items []T
	if err = tx.Find(&items).Error; err != nil {
		return fmt.Errorf("%w: cannot load rows: %w", ErrLogic, err)
	}

	s.items = items
	s.loaded = true

	return nil
}

// query builds the filtered query without ordering, offset and limit.
func (s *GORMSource[T]) query() (*gorm.DB, error) {
	tx := s.db.Session(&gorm.Session{}).Model(new(T))

	columns := append(
		lo.Map(s.filters, func(filter Filter, _ int) string { return filter.Column }),
		lo.Map(s.sort, func(ordering OrderBy, _ int) string { return ordering.Column })...,
	)

	var joins []string
	for _, column := range columns {
		path, err := s.lookupColumn(column)
		if err != nil {
			return nil, err
		}

		joins = append(joins, path.joinNames()...)
	}

	for _, join := range lo.Uniq(joins) {
		tx = tx.Joins(join)
	}

	expr, err := s.filters.toGORMExpression(func(column string) (clause.Column, error) {
		path, err := s.lookupColumn(column)
		if err != nil {
			return clause.Column{}, err
		}

		return path.clauseColumn(), nil
	})
	if err != nil {
		return nil, err
	}

	if expr != nil {
		tx = tx.Clauses(expr)
	}

	return tx, nil
}

// columnPath is a column resolved against the model schema: the to-one
// relations to walk and the field at the end of them.
type columnPath struct {
	relations []*schema.Relationship
	field     *schema.Field
}

func (s *GORMSource[T]) lookupColumn(column string) (columnPath, error) {
	parts := strings.Split(column, ".")
	sch := s.schema

	var ret columnPath
	for _, name := range parts[:len(parts)-1] {
		rel, ok := sch.Relationships.Relations[name]
		if !ok {
			return columnPath{}, fmt.Errorf(
				"%w: the relation '%s' of column '%s' has not been defined in the data source",
				ErrLogic, name, column,
			)
		}

		if rel.Type != schema.BelongsTo && rel.Type != schema.HasOne {
			return columnPath{}, fmt.Errorf(
				"%w: column '%s' walks the to-many relation '%s'",
				ErrLogic, column, name,
			)
		}

		ret.relations = append(ret.relations, rel)
		sch = rel.FieldSchema
	}

	field := sch.LookUpField(parts[len(parts)-1])
	if field == nil || field.DBName == "" {
		return columnPath{}, fmt.Errorf("%w: the column '%s' has not been defined in the data source", ErrLogic, column)
	}
	ret.field = field

	return ret, nil
}

// joinNames returns the GORM join names needed to reach the column,
// outermost first: "Author", "Author.Company".
func (p columnPath) joinNames() []string {
	ret := make([]string, 0, len(p.relations))
	for i := range p.relations {
		ret = append(ret, strings.Join(p.relationNames()[:i+1], "."))
	}

	return ret
}

func (p columnPath) relationNames() []string {
	return lo.Map(p.relations, func(rel *schema.Relationship, _ int) string {
		return rel.Name
	})
}

// clauseColumn returns the column qualified by the current table or by the
// alias GORM gives to the joined relation.
func (p columnPath) clauseColumn() clause.Column {
	if len(p.relations) == 0 {
		return clause.Column{Table: clause.CurrentTable, Name: p.field.DBName}
	}

	return clause.Column{Table: strings.Join(p.relationNames(), "__"), Name: p.field.DBName}
}

var _ DataSource[struct{}] = (*GORMSource[struct{}])(nil)
