/*
Package normalize maps heterogeneous backend response bodies onto one
canonical outcome: a resolved payload or a classified error.

# Rules

Rules are evaluated in order and the first match wins:

 1. status 204                          -> []
 2. empty or falsy body, 2xx status     -> []
 3. empty or falsy body, other status   -> EmptyResponse error
 4. object with a truthy "image" field  -> body as-is (upload result)
 5. object with "data" and "meta"       -> body as-is (paginated)
 6. object with "data"                  -> body.data
 7. array                               -> body as-is
 8. object with "status" == 0           -> body.data (legacy envelope)
 9. text containing <!DOCTYPE html>     -> NgrokWarning or HTMLResponse error
 10. anything else                      -> UnexpectedShape error

Rule 5 must precede rule 6. A paginated body always has a data field, so
swapping them would silently strip the pagination metadata.

# Purity

Normalize holds no state. The same response always yields the same
outcome; the only side effect is debug logging through the injected
zerolog logger.
*/
package normalize
