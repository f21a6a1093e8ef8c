package validators

import "go.mongodb.org/mongo-driver/bson"

var RecurringRuleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"weekday",
			"slots",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"weekday": bson.M{
				"bsonType": "string",
				"enum": []string{
					"Sunday", "Monday", "Tuesday", "Wednesday",
					"Thursday", "Friday", "Saturday",
				},
			},

			"slots": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 96,
				"items": bson.M{
					"bsonType": "string",
					"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
