package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - это ключ, по которому мы храним *gorm.DB в context
const DBContextKey = contextKey("db")

// ActorContextKey - это ключ, по которому мы храним auth.Actor в context.
// Актор передается явно вниз по стеку, а не через глобальное состояние.
const ActorContextKey = contextKey("actor")
