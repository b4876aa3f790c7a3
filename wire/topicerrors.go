package wire

import "github.com/axonmq/mqttwire/topic"

// wrapTopicErr translates a topic package validation failure into this
// package's own ErrorKind taxonomy (spec §7), so a caller comparing a
// PUBLISH/SUBSCRIBE/UNSUBSCRIBE decode failure with errors.Is never needs to
// know that topic/filter structure is validated by a separate package.
func wrapTopicErr(err error) error {
	switch {
	case err == nil:
		return nil
	case Is(err, topic.ErrEmpty):
		return wrap(ErrInvalidEmptyFilter, err.Error())
	case Is(err, topic.ErrTooLong):
		return wrap(ErrInvalidStringLength, err.Error())
	case Is(err, topic.ErrInvalidUTF8):
		return wrap(ErrInvalidUTF8, err.Error())
	case Is(err, topic.ErrInternalNull):
		return wrap(ErrInternalNull, err.Error())
	case Is(err, topic.ErrWildcardInName):
		return wrap(ErrInvalidWildcard, err.Error())
	case Is(err, topic.ErrWildcardPosition):
		return wrap(ErrInvalidWildcardPosition, err.Error())
	default:
		return wrap(ErrInvalidWildcardPosition, err.Error())
	}
}
