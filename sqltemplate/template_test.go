package sqltemplate

import (
	"reflect"
	"testing"
)

func testColumns() []ColumnMeta {
	return []ColumnMeta{
		NewColumnMeta("ID", DBTypeInt64, false),
		NewColumnMeta("FirstName", DBTypeString, false),
		NewColumnMeta("Email", DBTypeString, true),
	}
}

func TestPrepareStaticTemplate(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if tpl.HasDynamicPlaceholders() {
		t.Fatal("expected a purely static template")
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT "id", "first_name", "email" FROM "users"`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestInsertSkeleton(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "INSERT INTO {{table}} ({{columns}}) VALUES ({{values}})")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `INSERT INTO [users] ([id], [first_name], [email]) VALUES (@id, @first_name, @email)`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	wantParams := []string{"id", "first_name", "email"}
	if !reflect.DeepEqual(tpl.ParameterOrder(), wantParams) {
		t.Errorf("ParameterOrder = %v, want %v", tpl.ParameterOrder(), wantParams)
	}
}

func TestUpdateSet(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectMySQL), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "UPDATE {{table}} SET {{set --exclude ID}} WHERE id = @id")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "UPDATE `users` SET `first_name` = @first_name, `email` = @email WHERE id = @id"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestIfDirectiveDynamic(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), func(name string) (any, bool) {
		if name == "email" {
			return "a@b.com", true
		}
		return nil, false
	})
	tpl, err := Prepare(ctx, "SELECT 1{{if notnull=email}} AND email = $email{{/if}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !tpl.HasDynamicPlaceholders() {
		t.Fatal("expected dynamic template")
	}
	got, err := tpl.Render(ctx.varProvider)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "SELECT 1 AND email = $email"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestIfDirectiveFalseOmitsBlock(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), func(name string) (any, bool) {
		return nil, false
	})
	tpl, err := Prepare(ctx, "SELECT 1{{if notnull=email}} AND email = $email{{/if}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(ctx.varProvider)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "SELECT 1" {
		t.Errorf("Render = %q, want %q", got, "SELECT 1")
	}
}

func TestWhereBlockStripsLeadingConjunction(t *testing.T) {
	vp := func(name string) (any, bool) {
		if name == "name" {
			return "bob", true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT 1 {{where}}{{if notnull=name}}AND name = $name{{/if}}{{/where}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "SELECT 1 WHERE name = $name"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestWhereBlockEmptyRendersNothing(t *testing.T) {
	vp := func(name string) (any, bool) { return nil, false }
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT 1 {{where}}{{if notnull=name}}AND name = $name{{/if}}{{/where}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "SELECT 1 " {
		t.Errorf("Render = %q, want %q", got, "SELECT 1 ")
	}
}

func TestInDirectiveExpandsToMarkerList(t *testing.T) {
	vp := func(name string) (any, bool) {
		if name == "ids" {
			return []int64{1, 2, 3}, true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectOracle), "users", testColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT 1 WHERE id {{in --param ids}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "SELECT 1 WHERE id (:ids_0, :ids_1, :ids_2)"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestLimitDirective(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLServer), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}}{{limit --param pagesize --offset pageoffset --orderby id}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT [id], [first_name], [email] FROM [users] ORDER BY id OFFSET @pageoffset ROWS FETCH NEXT @pagesize ROWS ONLY`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestPrepareUnknownDirectiveFails(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", testColumns(), nil)
	_, err := Prepare(ctx, "SELECT {{bogus}}")
	if err == nil {
		t.Fatal("expected ParseError for unknown directive")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestPrepareUnterminatedBlockFails(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", testColumns(), nil)
	_, err := Prepare(ctx, "SELECT 1 {{if notnull=x}} AND 1=1")
	if err == nil {
		t.Fatal("expected ParseError for unterminated block")
	}
}

func TestRenderRejectsInjectedKeyword(t *testing.T) {
	vp := func(name string) (any, bool) {
		if name == "name" {
			return "bob; DROP TABLE users", true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT 1 {{if notnull=name}}AND name = {{var name}}{{/if}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	_, err = tpl.Render(vp)
	if err == nil {
		t.Fatal("expected SecurityError, got nil")
	}
	if _, ok := err.(*SecurityError); !ok {
		t.Fatalf("expected *SecurityError, got %T: %v", err, err)
	}
}

// specScenarioColumns mirrors the exact (id:Id, name:Name, email:Email?)
// column set used by the worked end-to-end examples.
func specScenarioColumns() []ColumnMeta {
	return []ColumnMeta{
		NewColumnMeta("Id", DBTypeInt64, false),
		NewColumnMeta("Name", DBTypeString, false),
		NewColumnMeta("Email", DBTypeString, true),
	}
}

func TestScenarioSQLiteSelectByID(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}} WHERE id = {{arg --param id}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if tpl.HasDynamicPlaceholders() {
		t.Fatal("expected has_dynamic_placeholders == false")
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT [id], [name], [email] FROM [users] WHERE id = @id`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestScenarioPostgresInsertExcludingID(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", specScenarioColumns(), nil)
	tpl, err := Prepare(ctx, "INSERT INTO {{table}} ({{columns --exclude Id}}) VALUES ({{values --exclude Id}})")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `INSERT INTO "users" ("name", "email") VALUES ($name, $email)`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestScenarioSQLiteUpdateWithInlineExpression(t *testing.T) {
	cols := append(specScenarioColumns(), NewColumnMeta("Version", DBTypeInt32, false))
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", cols, nil)
	tpl, err := Prepare(ctx, "UPDATE {{table}} SET {{set --exclude Id --inline Version=Version+1}} WHERE id = @id")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `UPDATE [users] SET [name] = @name, [email] = @email, [version] = [version]+1 WHERE id = @id`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestScenarioInDirectivePopulated(t *testing.T) {
	vp := func(name string) (any, bool) {
		if name == "ids" {
			return []int{1, 2, 3}, true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT * FROM {{table}} WHERE id IN {{in --param ids}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT * FROM [users] WHERE id IN (@ids_0, @ids_1, @ids_2)`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestScenarioInDirectiveEmptySlice(t *testing.T) {
	vp := func(name string) (any, bool) {
		if name == "ids" {
			return []int{}, true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT * FROM {{table}} WHERE id IN {{in --param ids}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT * FROM [users] WHERE id IN (NULL)`
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestScenarioInDirectiveNullVariable(t *testing.T) {
	vp := func(name string) (any, bool) { return nil, true }
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), vp)
	tpl, err := Prepare(ctx, "SELECT * FROM {{table}} WHERE id IN {{in --param ids}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(vp)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != `SELECT * FROM [users] WHERE id IN (NULL)` {
		t.Errorf("Render = %q, want (NULL) form", got)
	}
}

func TestScenarioConditionalPresentAndAbsent(t *testing.T) {
	tplSrc := "SELECT * FROM {{table}} WHERE 1=1 {{if notnull=name}}AND name = @name{{/if}}"

	present := func(name string) (any, bool) {
		if name == "name" {
			return "Alice", true
		}
		return nil, false
	}
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", specScenarioColumns(), present)
	tpl, err := Prepare(ctx, tplSrc)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(present)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `SELECT * FROM "users" WHERE 1=1 AND name = @name`
	if got != want {
		t.Errorf("Render(present) = %q, want %q", got, want)
	}

	absent := func(name string) (any, bool) { return nil, true }
	ctx2 := NewPlaceholderContext(DialectFor(DialectPostgres), "users", specScenarioColumns(), absent)
	tpl2, err := Prepare(ctx2, tplSrc)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got2, err := tpl2.Render(absent)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want2 := `SELECT * FROM "users" WHERE 1=1 `
	if got2 != want2 {
		t.Errorf("Render(absent) = %q, want %q", got2, want2)
	}
}

func TestEmptyColumnsRendersEmptyString(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", nil, nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "SELECT  FROM [users]" {
		t.Errorf("Render = %q, want no stray comma for empty columns", got)
	}
}

func TestArgWithoutParamIsParseError(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), nil)
	_, err := Prepare(ctx, "SELECT {{arg}}")
	if err == nil {
		t.Fatal("expected ParseError for {{arg}} without --param")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestRenderIsIdempotentForStaticTemplate(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectSQLite), "users", specScenarioColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	first, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := tpl.Render(func(string) (any, bool) { return "anything", true })
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Errorf("Render not idempotent for a static template: %q vs %q", first, second)
	}
}

func TestIfEmptyAndNotEmptyConditions(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT 1{{if empty=tag}} AND tag IS MISSING{{/if}}{{if notempty=tag}} AND tag = 'x'{{/if}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	got, err := tpl.Render(func(name string) (any, bool) {
		if name == "tag" {
			return "", true
		}
		return nil, false
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "SELECT 1 AND tag IS MISSING"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}

	got, err = tpl.Render(func(name string) (any, bool) {
		if name == "tag" {
			return "vip", true
		}
		return nil, false
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want = "SELECT 1 AND tag = 'x'"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestIfNullCondition(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT 1{{if null=email}} AND email IS NULL{{/if}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(func(string) (any, bool) { return nil, false })
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := "SELECT 1 AND email IS NULL"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestLimitWithLiteralCount(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT 1{{limit --count 10}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := tpl.Render(nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := "SELECT 1 LIMIT 10"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestLimitWithNonIntegerCountIsParseError(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	_, err := Prepare(ctx, "SELECT 1{{limit --count abc}}")
	if err == nil {
		t.Fatal("expected ParseError for non-integer --count")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestConcurrentRenderIsSafe(t *testing.T) {
	ctx := NewPlaceholderContext(DialectFor(DialectPostgres), "users", testColumns(), nil)
	tpl, err := Prepare(ctx, "SELECT {{columns}} FROM {{table}}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := tpl.Render(nil)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Render failed: %v", err)
		}
	}
}
