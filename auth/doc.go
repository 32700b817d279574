/*
Package auth is for authentication and authorization. It contains the user database interface (DBUser, UserDB), the role model and the glue between them.

Roles

A role is a capability tag. Every user holds a set of roles out of admin, researcher, writer and publisher. Roles are not exclusive and not ordered.

  researcher  proposes topics
  admin       assigns topics to writers, manages projects and users
  writer      submits content for articles assigned to them
  publisher   publishes submitted articles

Every mutating operation of the workflow engine is gated on the caller's role set. The mapping from operation to role predicate lives in the core package, so this package only answers "which roles does this user hold".
*/
package auth
